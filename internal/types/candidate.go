package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CandidateItinerary is the loosely-typed itinerary an AI provider returns.
// Every field is optional and decoding never fails on a badly typed scalar.
type CandidateItinerary struct {
	Destination     FlexString       `json:"destination"`
	TotalDays       FlexInt          `json:"total_days"`
	EstimatedCost   *CandidateCost   `json:"estimated_cost"`
	CarbonFootprint *CandidateCarbon `json:"carbon_footprint"`
	Days            []CandidateDay   `json:"days"`
}

type CandidateCost struct {
	Total         FlexInt `json:"total"`
	Accommodation FlexInt `json:"accommodation"`
	Food          FlexInt `json:"food"`
	Activities    FlexInt `json:"activities"`
	Transport     FlexInt `json:"transport"`
}

type CandidateCarbon struct {
	Total         FlexInt `json:"total"`
	Transport     FlexInt `json:"transport"`
	Accommodation FlexInt `json:"accommodation"`
}

type CandidateDay struct {
	Day        FlexInt             `json:"day"`
	Title      FlexString          `json:"title"`
	Activities []CandidateActivity `json:"activities"`
}

type CandidateActivity struct {
	Time        FlexString `json:"time"`
	Name        FlexString `json:"name"`
	Description FlexString `json:"description"`
	Duration    FlexString `json:"duration"`
	Cost        FlexInt    `json:"cost"`
	Type        FlexString `json:"type"`
	Location    FlexString `json:"location"`
	Address     FlexString `json:"address"`
	PlaceID     FlexString `json:"place_id"`
	Rating      FlexFloat  `json:"rating"`
	Photos      []string   `json:"photos"`
	MapURL      FlexString `json:"map_url"`
}

// FlexString accepts JSON strings, numbers and booleans. Anything else
// decodes to the empty string.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = FlexString(strings.TrimSpace(str))
		return nil
	}
	if len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		*s = FlexString(b)
		return nil
	}
	if string(b) == "true" || string(b) == "false" {
		*s = FlexString(b)
		return nil
	}
	*s = ""
	return nil
}

// FlexInt accepts JSON numbers, numeric strings and currency-formatted
// strings such as "$1,200" or "1200 INR". Unparseable values decode to 0.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	f, ok := parseLooseNumber(b)
	if !ok {
		*n = 0
		return nil
	}
	*n = FlexInt(clampInt(math.Round(f)))
	return nil
}

// clampInt converts f to int, saturating at the int range.
func clampInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(f)
	}
}

// FlexFloat is the float counterpart of FlexInt.
type FlexFloat float64

func (n *FlexFloat) UnmarshalJSON(b []byte) error {
	f, ok := parseLooseNumber(b)
	if !ok {
		*n = 0
		return nil
	}
	*n = FlexFloat(f)
	return nil
}

func parseLooseNumber(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}

	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return 0, false
	}

	var digits strings.Builder
	seenDigit, seenDot := false, false
	for _, r := range str {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
			seenDigit = true
		case r == '.' && seenDigit && !seenDot:
			digits.WriteRune(r)
			seenDot = true
		case r == '-' && !seenDigit && digits.Len() == 0:
			digits.WriteRune(r)
		case r == ',' || r == '_' || r == ' ':
			// thousands separators
		default:
			if seenDigit {
				// "1200 INR", "3-4 hours": keep the leading number only
				return finishNumber(digits.String())
			}
		}
	}
	if !seenDigit {
		return 0, false
	}
	return finishNumber(digits.String())
}

func finishNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(s, ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
