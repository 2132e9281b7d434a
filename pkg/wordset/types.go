package wordset

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned by New when two words share an id
var ErrDuplicateID = errors.New("duplicate word id")

// Word is a recognized word with its bounding box in image-intrinsic pixels.
// The JSON shape matches the OCR service response.
type Word struct {
	ID         int      `json:"wordId"`               // Unique within a document
	Text       string   `json:"text"`                 // Recognized text
	Left       float64  `json:"left"`                 // Left edge
	Top        float64  `json:"top"`                  // Top edge
	Width      float64  `json:"width"`                // Box width
	Height     float64  `json:"height"`               // Box height
	LineID     int      `json:"lineId"`               // Line the word belongs to
	Confidence *float64 `json:"confidence,omitempty"` // Recognition confidence (0-1), if known
}

// Right returns the right edge of the word box
func (w Word) Right() float64 { return w.Left + w.Width }

// Bottom returns the bottom edge of the word box
func (w Word) Bottom() float64 { return w.Top + w.Height }

// Bounds returns the word box as a Rect
func (w Word) Bounds() Rect {
	return Rect{Left: w.Left, Top: w.Top, Width: w.Width, Height: w.Height}
}

// Contains reports whether p lies inside the word box, edges included
func (w Word) Contains(p Point) bool {
	return p.X >= w.Left && p.X <= w.Right() &&
		p.Y >= w.Top && p.Y <= w.Bottom()
}

// Point is a position in image-intrinsic pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the rectangle spanned by two corners in any order
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Width:  abs(b.X - a.X),
		Height: abs(b.Y - a.Y),
	}
}

// Right returns the right edge of the rectangle
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge of the rectangle
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Overlaps reports whether r and o intersect. Touching edges count.
func (r Rect) Overlaps(o Rect) bool {
	return !(o.Right() < r.Left || o.Left > r.Right() ||
		o.Bottom() < r.Top || o.Top > r.Bottom())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Set is the ordered collection of words for one document.
// It keeps the provider's original order and is never mutated after New.
type Set struct {
	words []Word
	index map[int]int
}

// New creates a Set from words in OCR order
func New(words []Word) (*Set, error) {
	s := &Set{
		words: make([]Word, len(words)),
		index: make(map[int]int, len(words)),
	}
	copy(s.words, words)

	for i, w := range s.words {
		if _, dup := s.index[w.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, w.ID)
		}
		s.index[w.ID] = i
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(words []Word) *Set {
	s, err := New(words)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of words. A nil Set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Words returns a copy of the words in OCR order
func (s *Set) Words() []Word {
	if s == nil {
		return nil
	}
	out := make([]Word, len(s.words))
	copy(out, s.words)
	return out
}

// Lookup returns the word with the given id
func (s *Set) Lookup(id int) (Word, bool) {
	if s == nil {
		return Word{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return Word{}, false
	}
	return s.words[i], true
}

// Select returns the words whose id is in ids, in reading order.
// Ids that are not part of the set are ignored.
func (s *Set) Select(ids IDSet) []Word {
	if s == nil || len(ids) == 0 {
		return nil
	}
	var picked []Word
	for _, w := range s.words {
		if ids.Has(w.ID) {
			picked = append(picked, w)
		}
	}
	return SortReadingOrder(picked)
}

// Line returns every word on the given line, in reading order
func (s *Set) Line(lineID int) []Word {
	if s == nil {
		return nil
	}
	var line []Word
	for _, w := range s.words {
		if w.LineID == lineID {
			line = append(line, w)
		}
	}
	return SortReadingOrder(line)
}
