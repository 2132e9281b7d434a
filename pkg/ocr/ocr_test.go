package ocr

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"

	"github.com/gardar/ocrselect/pkg/wordset"
)

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func pngEncode(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }
func bmpEncode(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
		mime   string
		w, h   int
	}{
		{"png", encode(t, pngEncode, 40, 30), "png", "image/png", 40, 30},
		{"bmp", encode(t, bmpEncode, 12, 7), "bmp", "image/bmp", 12, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage("scan."+tt.name, tt.data)
			if err != nil {
				t.Fatalf("DecodeImage() error = %v", err)
			}
			if img.Format != tt.format || img.MimeType != tt.mime || img.Width != tt.w || img.Height != tt.h {
				t.Errorf("DecodeImage() = %s %s %dx%d", img.Format, img.MimeType, img.Width, img.Height)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	good := encode(t, pngEncode, 4, 4)
	tests := []struct {
		name    string
		file    string
		data    []byte
		max     int
		wantErr error
	}{
		{"ok", "scan.png", good, 0, nil},
		{"too large", "scan.png", good, 10, ErrImageTooLarge},
		{"empty", "scan.png", nil, 0, ErrEmptyImage},
		{"not an image", "notes.png", []byte("%PDF-1.7 hello"), 0, ErrUnsupportedType},
		{"traversal", "../../etc/scan.png", good, 0, ErrBadFilename},
		{"control char", "scan\x00.png", good, 0, ErrBadFilename},
		{"angle brackets", "<scan>.png", good, 0, ErrBadFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.file, tt.data, tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResultFile(t *testing.T) {
	conf := 0.9
	r := Result{
		Provider: "tesseract",
		Width:    200,
		Height:   100,
		Words: []wordset.Word{
			{ID: 1, Text: "World", Left: 70, Top: 10, Width: 50, Height: 20, LineID: 1, Confidence: &conf},
			{ID: 2, Text: "Hello", Left: 10, Top: 10, Width: 50, Height: 20, LineID: 1},
		},
	}
	var buf bytes.Buffer
	if err := WriteResult(&buf, r); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"wordId": 1`, `"lineId": 1`, `"confidence": 0.9`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("encoded words lack %s:\n%s", key, buf.String())
		}
	}

	got, err := ReadResult(&buf)
	if err != nil {
		t.Fatalf("ReadResult() error = %v", err)
	}
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("ReadResult() mismatch (-want +got):\n%s", diff)
	}
	if got.Text() != "Hello World" {
		t.Errorf("Text() = %q", got.Text())
	}
}

func TestReadResultRejects(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"duplicate ids", `{"words":[{"wordId":1,"text":"a"},{"wordId":1,"text":"b"}]}`, wordset.ErrDuplicateID},
		{"garbage", `{"words":`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadResult(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("ReadResult() succeeded")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadResult() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenumber(t *testing.T) {
	in := []wordset.Word{{ID: 40, Text: "a"}, {ID: 7, Text: "b"}}
	got := Renumber(in)
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("Renumber() ids = %d %d", got[0].ID, got[1].ID)
	}
	if in[0].ID != 40 {
		t.Errorf("Renumber() modified its input")
	}
}

func TestEstimateWords(t *testing.T) {
	words := EstimateWords("  Hello  wide\n\n\tÞór\n", 1600, 1000)

	conf := 0.8
	want := []wordset.Word{
		{ID: 1, Text: "Hello", Left: 80, Top: 50, Width: 100, Height: 25, LineID: 0, Confidence: &conf},
		{ID: 2, Text: "wide", Left: 190, Top: 50, Width: 80, Height: 25, LineID: 0, Confidence: &conf},
		{ID: 3, Text: "Þór", Left: 80, Top: 80, Width: 60, Height: 25, LineID: 1, Confidence: &conf},
	}
	if diff := cmp.Diff(want, words); diff != "" {
		t.Errorf("EstimateWords() mismatch (-want +got):\n%s", diff)
	}
	if got := EstimateWords(" \n ", 100, 100); got != nil {
		t.Errorf("EstimateWords() of blank text = %v", got)
	}
}

func TestEstimateSize(t *testing.T) {
	tests := []struct {
		text string
		w, h int
	}{
		{"short", 800, 600},
		{strings.Repeat("x", 100), 1200, 600},
		{strings.Repeat("x", 500), 1600, 600},
		{strings.Repeat("line\n\n", 30), 800, 900},
		{strings.Repeat("line\n", 100), 800, 2000},
	}
	for _, tt := range tests {
		w, h := EstimateSize(tt.text)
		if w != tt.w || h != tt.h {
			t.Errorf("EstimateSize(%.10q...) = %dx%d, want %dx%d", tt.text, w, h, tt.w, tt.h)
		}
	}
}
