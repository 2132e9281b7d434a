package wordset

import (
	"sort"
	"strings"
)

// SortReadingOrder returns a copy of words ordered by line, then by left edge.
// The sort is stable, so words with equal keys keep their OCR order.
func SortReadingOrder(words []Word) []Word {
	if len(words) == 0 {
		return nil
	}
	out := make([]Word, len(words))
	copy(out, words)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LineID != out[j].LineID {
			return out[i].LineID < out[j].LineID
		}
		return out[i].Left < out[j].Left
	})
	return out
}

// WordsBetween returns the inclusive reading-order span between a and b over the
// whole document. A span crossing lines includes every word on every line in
// between. Argument order does not matter. Returns nil if either word is not in
// the set.
func (s *Set) WordsBetween(a, b Word) []Word {
	if s == nil {
		return nil
	}
	ordered := SortReadingOrder(s.words)

	start, end := -1, -1
	for i, w := range ordered {
		if w.ID == a.ID {
			start = i
		}
		if w.ID == b.ID {
			end = i
		}
	}
	if start == -1 || end == -1 {
		return nil
	}
	if start > end {
		start, end = end, start
	}
	return ordered[start : end+1]
}

// AssembleText joins the word texts with single spaces.
// Callers pass words already in reading order.
func AssembleText(words []Word) string {
	if len(words) == 0 {
		return ""
	}
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}
