package hocr

import (
	"errors"
	"fmt"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// ErrNoPages is returned when a document has no ocr_page element
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

// Document is a parsed hOCR file
type Document struct {
	Title    string // Document title
	Language string // Document language
	System   string // ocr-system meta, e.g. "tesseract 5.3.0"
	Pages    []Page // Pages in document order
}

// Page is one ocr_page with its words flattened
type Page struct {
	ID         string         // Element id
	PageNumber int            // ppageno, 0 based as written by tesseract
	ImageName  string         // Source image filename
	BBox       BoundingBox    // Page coordinates, usually the image size
	Words      []wordset.Word // Words in document order, ids start at 1
}

// Width returns the page width in image pixels
func (p Page) Width() float64 { return p.BBox.X2 - p.BBox.X1 }

// Height returns the page height in image pixels
func (p Page) Height() float64 { return p.BBox.Y2 - p.BBox.Y1 }

// Set builds a word set from the page
func (p Page) Set() (*wordset.Set, error) {
	return wordset.New(p.Words)
}

// Page returns the n-th page, 1 based
func (d Document) Page(n int) (Page, error) {
	if n < 1 || n > len(d.Pages) {
		return Page{}, fmt.Errorf("page %d out of range (document has %d)", n, len(d.Pages))
	}
	return d.Pages[n-1], nil
}

// BoundingBox holds an hOCR 'bbox' property
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from corner coordinates
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// BoxOf returns the bounding box of a word
func BoxOf(w wordset.Word) BoundingBox {
	return NewBoundingBox(w.Left, w.Top, w.Right(), w.Bottom())
}

// Rect converts the box to left/top/width/height form
func (b BoundingBox) Rect() wordset.Rect {
	return wordset.Rect{Left: b.X1, Top: b.Y1, Width: b.X2 - b.X1, Height: b.Y2 - b.Y1}
}
