package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/gardar/ocrselect/pkg/wordset"
)

//go:embed templates/words.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("words.tmpl").Funcs(template.FuncMap{
	"bbox": formatBBox,
	"box":  BoxOf,
	"conf": formatConfidence,
}).ParseFS(templateFS, "templates/words.tmpl"))

// line groups words for the template
type line struct {
	ID    int
	BBox  BoundingBox
	Words []wordset.Word
}

type pageView struct {
	Title    string
	Language string
	Page     Page
	Lines    []line
}

// GenerateOptions set document level metadata of generated hOCR
type GenerateOptions struct {
	Title    string
	Language string
}

// Generate renders a page of words as an hOCR document. Words are written in
// reading order, grouped into one ocr_line per line id. Parsing the output
// again numbers words in that order.
func Generate(page Page, opts GenerateOptions) (string, error) {
	view := pageView{
		Title:    opts.Title,
		Language: opts.Language,
		Page:     page,
		Lines:    groupLines(page.Words),
	}
	if view.Page.BBox == (BoundingBox{}) {
		view.Page.BBox = extent(page.Words)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// Text returns the page text, one output line per line id in reading order
func Text(page Page) string {
	lines := groupLines(page.Words)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = wordset.AssembleText(l.Words)
	}
	return strings.Join(out, "\n")
}

func groupLines(words []wordset.Word) []line {
	var lines []line
	for _, w := range wordset.SortReadingOrder(words) {
		if len(lines) == 0 || lines[len(lines)-1].ID != w.LineID {
			lines = append(lines, line{ID: w.LineID})
		}
		cur := &lines[len(lines)-1]
		cur.Words = append(cur.Words, w)
	}
	for i := range lines {
		lines[i].BBox = extent(lines[i].Words)
	}
	return lines
}

// extent is the union of the word boxes
func extent(words []wordset.Word) BoundingBox {
	if len(words) == 0 {
		return BoundingBox{}
	}
	b := NewBoundingBox(math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1))
	for _, w := range words {
		b.X1 = math.Min(b.X1, w.Left)
		b.Y1 = math.Min(b.Y1, w.Top)
		b.X2 = math.Max(b.X2, w.Right())
		b.Y2 = math.Max(b.Y2, w.Bottom())
	}
	return b
}

func formatBBox(b BoundingBox) string {
	return fmt.Sprintf("bbox %d %d %d %d",
		int(math.Round(b.X1)), int(math.Round(b.Y1)), int(math.Round(b.X2)), int(math.Round(b.Y2)))
}

// formatConfidence writes a 0..1 confidence as an x_wconf percentage
func formatConfidence(c *float64) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("; x_wconf %d", int(math.Round(*c*100)))
}
