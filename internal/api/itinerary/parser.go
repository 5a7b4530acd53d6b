package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var (
	ErrNoJSON         = errors.New("no JSON object in AI response")
	ErrEmptyCandidate = errors.New("AI response has no itinerary days")
)

// ExtractJSONObject returns the first balanced top-level {...} in text.
// Braces inside JSON strings are ignored, so markdown fences or prose
// around the object do not matter.
func ExtractJSONObject(text string) (string, bool) {
	start, end, ok := nextJSONObject(text, 0)
	if !ok {
		return "", false
	}
	return text[start:end], true
}

// nextJSONObject finds the first balanced object starting at or after from.
// end is exclusive.
func nextJSONObject(text string, from int) (start, end int, ok bool) {
	for start = from; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		if end, ok = matchBraces(text, start); ok {
			return start, end, true
		}
	}
	return 0, 0, false
}

func matchBraces(text string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// ParseCandidate decodes the first top-level object in text that is valid
// JSON. Objects nested inside one that failed to decode are never tried. It returns ErrNoJSON when text holds no balanced object and
// ErrEmptyCandidate when the decoded itinerary has no days.
func ParseCandidate(text string) (*types.CandidateItinerary, error) {
	var lastErr error
	for from := 0; ; {
		start, end, ok := nextJSONObject(text, from)
		if !ok {
			break
		}

		var c types.CandidateItinerary
		if err := json.Unmarshal([]byte(text[start:end]), &c); err != nil {
			lastErr = err
			from = end
			continue
		}
		if len(c.Days) == 0 {
			return nil, ErrEmptyCandidate
		}
		return &c, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to decode AI itinerary: %w", lastErr)
	}
	return nil, ErrNoJSON
}
