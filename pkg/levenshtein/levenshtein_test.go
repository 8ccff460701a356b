package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bindinfo/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	s := levenshtein.NewSuggester(nil)

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"Lav_ERRORS", "Lav_ERROR", 1},
		{"héllo", "hello", 1},
		{"flaw", "lawn", 2},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, s.Distance(tc.a, tc.b), "%q -> %q", tc.a, tc.b)
		assert.Equal(t, tc.want, s.Distance(tc.b, tc.a), "%q -> %q", tc.b, tc.a)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	s := levenshtein.NewSuggester([]string{"Lav_ERRORS", "Lav_NODE_TYPES", "Lav_SINE_PROPERTIES"})

	got, ok := s.Suggest("Lav_ERROR")
	assert.True(t, ok)
	assert.Equal(t, "Lav_ERRORS", got)

	got, ok = s.Suggest("Lav_NODE_TYPE")
	assert.True(t, ok)
	assert.Equal(t, "Lav_NODE_TYPES", got)

	_, ok = s.Suggest("Lav_ERRORS")
	assert.False(t, ok, "exact match")

	_, ok = s.Suggest("Something_Else")
	assert.False(t, ok, "too far")
}

func TestSuggest_TiesKeepCandidateOrder(t *testing.T) {
	t.Parallel()

	s := levenshtein.NewSuggester([]string{"abd", "abe"})

	got, ok := s.Suggest("abc")
	assert.True(t, ok)
	assert.Equal(t, "abd", got)
}
