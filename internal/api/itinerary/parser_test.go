package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"prose around", `Sure! Here it is: {"a":"x"} Enjoy.`, `{"a":"x"}`, true},
		{"braces in strings", `{"title":"Day {1}","note":"a \"}\" b"}`, `{"title":"Day {1}","note":"a \"}\" b"}`, true},
		{"first of two", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"no object", `I could not plan that trip.`, "", false},
		{"unterminated", `{"a": {"b": 1}`, `{"b": 1}`, true},
		{"empty", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCandidate(t *testing.T) {
	t.Run("valid response in fences", func(t *testing.T) {
		text := "```json\n" + `{
			"destination": "Istanbul",
			"days": [
				{"day": 1, "title": "Old City", "activities": [{"name": "Topkapi Palace", "type": "palace", "cost": "$25"}]},
				{"day": 2, "title": "Bosphorus", "activities": []}
			]
		}` + "\n```"

		c, err := ParseCandidate(text)
		require.NoError(t, err)
		require.Len(t, c.Days, 2)
		assert.Equal(t, "Topkapi Palace", string(c.Days[0].Activities[0].Name))
		assert.EqualValues(t, 25, c.Days[0].Activities[0].Cost)
	})

	t.Run("skips a balanced object that is not JSON", func(t *testing.T) {
		c, err := ParseCandidate(`Plan {for you}: {"days": [{"title": "One"}]}`)
		require.NoError(t, err)
		require.Len(t, c.Days, 1)
	})

	t.Run("no JSON", func(t *testing.T) {
		_, err := ParseCandidate("Sorry, I can't help with that.")
		assert.ErrorIs(t, err, ErrNoJSON)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseCandidate(`{"days": [1, 2,]}`)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoJSON)
		assert.Equal(t, ReasonParseError, parseFailureReason(err))
	})

	t.Run("nested day is not taken for the itinerary", func(t *testing.T) {
		_, err := ParseCandidate(`{"days":[{"title":"x","activities":[]}],}`)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyCandidate)
		assert.Equal(t, ReasonParseError, parseFailureReason(err))
	})

	t.Run("second top-level object used after a broken first", func(t *testing.T) {
		c, err := ParseCandidate(`{"days":[{"title":"x"}],} {"days":[{"title":"Recovered"}]}`)
		require.NoError(t, err)
		require.Len(t, c.Days, 1)
		assert.Equal(t, "Recovered", string(c.Days[0].Title))
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := ParseCandidate(`{"days": "three"}`)
		require.Error(t, err)
		assert.Equal(t, ReasonParseError, parseFailureReason(err))
	})

	t.Run("no days", func(t *testing.T) {
		_, err := ParseCandidate(`{"destination": "Istanbul", "days": []}`)
		assert.ErrorIs(t, err, ErrEmptyCandidate)
		assert.Equal(t, ReasonEmpty, parseFailureReason(err))
	})
}
