// Copyright (c) 2015, Arbo von Monkiewitsch All rights reserved.
// Use of this source code is governed by a BSD-style
// license.

// Package levenshtein suggests the closest known identifier for a
// misspelled one by Levenshtein edit distance.
package levenshtein

// minSuggestDistance is the edit budget for short names.
const minSuggestDistance = 2

// Suggester matches names against a fixed candidate list. It reuses one
// scratch column across calls and is not safe for concurrent use.
type Suggester struct {
	candidates []string
	column     []int
}

// NewSuggester creates a Suggester over candidates. Earlier candidates win ties.
func NewSuggester(candidates []string) *Suggester {
	return &Suggester{candidates: candidates}
}

// Suggest returns the candidate closest to name when it is within
// max(2, len(name)/4) edits. An exact match is not a suggestion.
func (s *Suggester) Suggest(name string) (string, bool) {
	budget := max(minSuggestDistance, len([]rune(name))/4)

	best, bestDistance := "", budget+1

	for _, candidate := range s.candidates {
		if candidate == name {
			return "", false
		}

		if d := s.Distance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best, best != ""
}

// Distance is the minimum number of single-rune insertions, deletions or
// substitutions turning str1 into str2. It uses O(len(str1)) space.
func (s *Suggester) Distance(str1, str2 string) int {
	s1 := []rune(str1)
	s2 := []rune(str2)

	if len(s2) == 0 {
		return len(s1)
	}

	if cap(s.column) < len(s1)+1 {
		s.column = make([]int, len(s1)+1)
	}

	column := s.column[:len(s1)+1]
	for row := range column {
		column[row] = row
	}

	for col, r2 := range s2 {
		column[0] = col + 1
		diag := col

		for row, r1 := range s1 {
			above := column[row+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			column[row+1] = min(above+1, column[row]+1, diag+cost)
			diag = above
		}
	}

	return column[len(s1)]
}
