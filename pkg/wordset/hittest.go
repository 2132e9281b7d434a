package wordset

// FindAtPoint returns the first word, in OCR order, whose box contains p.
// Overlapping boxes resolve to the first match, not the smallest one.
func FindAtPoint(p Point, words []Word) (Word, bool) {
	for _, w := range words {
		if w.Contains(p) {
			return w, true
		}
	}
	return Word{}, false
}

// FindInRectangle returns the ids of all words whose box overlaps r,
// partial overlap included
func FindInRectangle(r Rect, words []Word) IDSet {
	ids := make(IDSet)
	for _, w := range words {
		if r.Overlaps(w.Bounds()) {
			ids.Add(w.ID)
		}
	}
	return ids
}

// FindAtPoint is FindAtPoint over the set's words
func (s *Set) FindAtPoint(p Point) (Word, bool) {
	if s == nil {
		return Word{}, false
	}
	return FindAtPoint(p, s.words)
}

// FindInRectangle is FindInRectangle over the set's words
func (s *Set) FindInRectangle(r Rect) IDSet {
	if s == nil {
		return IDSet{}
	}
	return FindInRectangle(r, s.words)
}
