package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/ocrselect/pkg/selection"
	"github.com/gardar/ocrselect/pkg/wordset"
)

// selectionFlags describe a selection on the command line, the same ways
// the pointer can make one
type selectionFlags struct {
	ids  string
	span string
	rect string
	line int
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ids, "ids", "", "Comma separated word ids, as with ctrl/cmd-click")
	cmd.Flags().StringVar(&f.span, "range", "", "Reading-order span from:to between two word ids, as with shift-click")
	cmd.Flags().StringVar(&f.rect, "rect", "", "Marquee left,top,width,height in image pixels")
	cmd.Flags().IntVar(&f.line, "line", 0, "Every word of a line id, as with double-click")
	cmd.MarkFlagsMutuallyExclusive("ids", "range", "rect", "line")
}

// resolve returns the selection described by the flags. Without any flag
// the selection is empty.
func (f *selectionFlags) resolve(cmd *cobra.Command, set *wordset.Set) (selection.Selection, error) {
	var ids wordset.IDSet
	var err error
	switch {
	case f.ids != "":
		ids, err = parseIDs(f.ids)
	case f.span != "":
		ids, err = parseSpan(f.span, set)
	case f.rect != "":
		var r wordset.Rect
		r, err = parseRect(f.rect)
		ids = set.FindInRectangle(r)
	case cmd.Flags().Changed("line"):
		ids = wordset.IDsOf(set.Line(f.line))
		if ids.Len() == 0 {
			err = fmt.Errorf("line %d has no words", f.line)
		}
	default:
		return selection.Empty(), nil
	}
	if err != nil {
		return selection.Empty(), err
	}
	return selection.New(set, ids), nil
}

func parseIDs(s string) (wordset.IDSet, error) {
	ids := wordset.NewIDSet()
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid word id %q", part)
		}
		ids.Add(id)
	}
	return ids, nil
}

func parseSpan(s string, set *wordset.Set) (wordset.IDSet, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("range %q: want from:to", s)
	}
	a, err := lookup(set, from)
	if err != nil {
		return nil, err
	}
	b, err := lookup(set, to)
	if err != nil {
		return nil, err
	}
	return wordset.IDsOf(set.WordsBetween(a, b)), nil
}

func lookup(set *wordset.Set, s string) (wordset.Word, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return wordset.Word{}, fmt.Errorf("invalid word id %q", s)
	}
	w, ok := set.Lookup(id)
	if !ok {
		return wordset.Word{}, fmt.Errorf("word %d not found", id)
	}
	return w, nil
}

func parseRect(s string) (wordset.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return wordset.Rect{}, errors.New("rect: want left,top,width,height")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return wordset.Rect{}, fmt.Errorf("rect: invalid number %q", p)
		}
		v[i] = f
	}
	return wordset.RectFromPoints(
		wordset.Point{X: v[0], Y: v[1]},
		wordset.Point{X: v[0] + v[2], Y: v[1] + v[3]},
	), nil
}
