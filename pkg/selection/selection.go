// Package selection implements the pointer driven word selection engine.
//
// An Engine turns pointer events into word selections. A pointer-down on a
// word applies click semantics (plain, double-click line select, ctrl/cmd
// toggle, shift range) and starts a range drag; a pointer-down on empty space
// starts a marquee rectangle drag. Global move and up events are received
// through a scoped capture acquired from a PointerSource for the duration of
// the drag only.
//
// Selection is an immutable value derived from a word set and a set of ids.
// Its ordered words and text are always recomputed together from the ids.
package selection

import "github.com/gardar/ocrselect/pkg/wordset"

// Selection is the current set of selected words.
// Build it with New or Empty; the zero value is an empty selection.
type Selection struct {
	ids   wordset.IDSet
	words []wordset.Word
	text  string
}

// New derives a selection from ids over set. Ids that are not part of the set
// are dropped, so IDs always matches Words.
func New(set *wordset.Set, ids wordset.IDSet) Selection {
	words := set.Select(ids)
	return Selection{
		ids:   wordset.IDsOf(words),
		words: words,
		text:  wordset.AssembleText(words),
	}
}

// Empty returns a selection with nothing selected
func Empty() Selection {
	return Selection{ids: wordset.IDSet{}}
}

// IDs returns a copy of the selected word ids
func (s Selection) IDs() wordset.IDSet {
	if s.ids == nil {
		return wordset.IDSet{}
	}
	return s.ids.Clone()
}

// Words returns the selected words in reading order
func (s Selection) Words() []wordset.Word {
	if len(s.words) == 0 {
		return []wordset.Word{}
	}
	out := make([]wordset.Word, len(s.words))
	copy(out, s.words)
	return out
}

// Text returns the selected words joined in reading order
func (s Selection) Text() string { return s.text }

// Len returns the number of selected words
func (s Selection) Len() int { return len(s.words) }

// IsEmpty reports whether nothing is selected
func (s Selection) IsEmpty() bool { return len(s.words) == 0 }

// Has reports whether the word with id is selected
func (s Selection) Has(id int) bool { return s.ids.Has(id) }

// Last returns the last selected word in reading order
func (s Selection) Last() (wordset.Word, bool) {
	if len(s.words) == 0 {
		return wordset.Word{}, false
	}
	return s.words[len(s.words)-1], true
}
