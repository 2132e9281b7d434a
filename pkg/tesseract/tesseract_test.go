package tesseract

import (
	"context"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/wordset"
)

func conf(c float64) *float64 { return &c }

func TestWordsFromBoxes(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(10, 10, 60, 30), Word: "Hello", Confidence: 96, BlockNum: 1, ParNum: 1, LineNum: 1, WordNum: 1},
		{Box: image.Rect(70, 10, 120, 30), Word: "World", Confidence: 91.5, BlockNum: 1, ParNum: 1, LineNum: 1, WordNum: 2},
		{Box: image.Rect(0, 0, 5, 5), Word: "", Confidence: 0, BlockNum: 1, ParNum: 1, LineNum: 1, WordNum: 3},
		{Box: image.Rect(10, 40, 50, 60), Word: "This", Confidence: 88, BlockNum: 1, ParNum: 1, LineNum: 2, WordNum: 1},
		// Line numbers restart per paragraph
		{Box: image.Rect(10, 80, 40, 95), Word: "next", Confidence: -1, BlockNum: 1, ParNum: 2, LineNum: 1, WordNum: 1},
	}
	want := []wordset.Word{
		{ID: 1, Text: "Hello", Left: 10, Top: 10, Width: 50, Height: 20, LineID: 1, Confidence: conf(0.96)},
		{ID: 2, Text: "World", Left: 70, Top: 10, Width: 50, Height: 20, LineID: 1, Confidence: conf(0.915)},
		{ID: 3, Text: "This", Left: 10, Top: 40, Width: 40, Height: 20, LineID: 2, Confidence: conf(0.88)},
		{ID: 4, Text: "next", Left: 10, Top: 80, Width: 30, Height: 15, LineID: 3},
	}
	if diff := cmp.Diff(want, WordsFromBoxes(boxes)); diff != "" {
		t.Errorf("WordsFromBoxes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecognizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig()).Recognize(ctx, ocr.Image{Name: "x.png"})
	if err != context.Canceled {
		t.Errorf("Recognize() error = %v, want context.Canceled", err)
	}
}
