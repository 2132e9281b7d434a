package gdocai

import (
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// Page is a Document AI page converted to word boxes
type Page struct {
	Number int // 1 based
	Width  int // Page width in pixels
	Height int // Page height in pixels
	Words  []wordset.Word
}

// PageFromProto converts the tokens of a Document AI page into words.
// Word ids follow token order starting at 1. Tokens outside every line
// get a line of their own.
func PageFromProto(page *documentaipb.Document_Page, fullText string) Page {
	dim := page.GetDimension()
	out := Page{
		Number: int(page.GetPageNumber()),
		Width:  int(math.Round(float64(dim.GetWidth()))),
		Height: int(math.Round(float64(dim.GetHeight()))),
	}

	lines := page.GetLines()
	extraLine := len(lines)
	for _, token := range page.GetTokens() {
		text := tokenText(token, fullText)
		if text == "" {
			continue
		}
		box, ok := layoutBox(token.GetLayout(), dim)
		if !ok {
			continue
		}

		lineID := lineOf(token.GetLayout(), lines)
		if lineID == 0 {
			extraLine++
			lineID = extraLine
		}

		w := wordset.Word{
			ID:     len(out.Words) + 1,
			Text:   text,
			Left:   box.Left,
			Top:    box.Top,
			Width:  box.Width,
			Height: box.Height,
			LineID: lineID,
		}
		if c := token.GetLayout().GetConfidence(); c > 0 {
			conf := float64(c)
			w.Confidence = &conf
		}
		out.Words = append(out.Words, w)
	}
	return out
}

// tokenText returns the token text without the trailing break
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	return strings.TrimSpace(textFromLayout(token.GetLayout(), fullText))
}

// lineOf returns the 1 based index of the line whose text range contains the
// start of layout, or 0 if none does
func lineOf(layout *documentaipb.Document_Page_Layout, lines []*documentaipb.Document_Page_Line) int {
	start, _, ok := textRange(layout)
	if !ok {
		return 0
	}
	for i, line := range lines {
		ls, le, ok := textRange(line.GetLayout())
		if ok && start >= ls && start < le {
			return i + 1
		}
	}
	return 0
}

func textRange(layout *documentaipb.Document_Page_Layout) (start, end int64, ok bool) {
	segs := layout.GetTextAnchor().GetTextSegments()
	if len(segs) == 0 {
		return 0, 0, false
	}
	return segs[0].GetStartIndex(), segs[len(segs)-1].GetEndIndex(), true
}

// layoutBox converts a layout's bounding poly to pixels. Normalized vertices
// are scaled by the page dimension; absolute vertices are used as is.
func layoutBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (wordset.Rect, bool) {
	poly := layout.GetBoundingPoly()
	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 && dim != nil {
		for _, v := range nv {
			xs = append(xs, float64(v.GetX()*dim.GetWidth()))
			ys = append(ys, float64(v.GetY()*dim.GetHeight()))
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	}
	if len(xs) < 2 {
		return wordset.Rect{}, false
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	return wordset.Rect{
		Left:   math.Round(minX),
		Top:    math.Round(minY),
		Width:  math.Round(maxX) - math.Round(minX),
		Height: math.Round(maxY) - math.Round(minY),
	}, true
}
