package wordset

import "sort"

// IDSet is a set of word ids
type IDSet map[int]struct{}

// NewIDSet creates a set holding ids
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// IDsOf collects the ids of words
func IDsOf(words []Word) IDSet {
	s := make(IDSet, len(words))
	for _, w := range words {
		s[w.ID] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id
func (s IDSet) Add(id int) { s[id] = struct{}{} }

// Remove deletes id
func (s IDSet) Remove(id int) { delete(s, id) }

// Toggle adds id if absent and removes it if present
func (s IDSet) Toggle(id int) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Len returns the number of ids
func (s IDSet) Len() int { return len(s) }

// Clone returns an independent copy
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the ids in ascending order
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
