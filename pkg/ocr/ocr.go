// Package ocr defines the OCR provider contract and the word result format
// shared by the recognizers (Document AI, tesseract) and the hOCR importer.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// ErrNoWords is returned when recognition finds no text at all
var ErrNoWords = errors.New("no words recognized")

// Provider recognizes words in an image
type Provider interface {
	// Name identifies the provider in logs and results
	Name() string
	// Recognize returns word boxes in image pixels, in the engine's reading order
	Recognize(ctx context.Context, img Image) (Result, error)
}

// Result is the recognized words of one image. It is also the on-disk
// words file format.
type Result struct {
	Provider string         `json:"provider,omitempty"`
	Image    string         `json:"image,omitempty"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Words    []wordset.Word `json:"words"`
}

// Set builds a word set from the result
func (r Result) Set() (*wordset.Set, error) {
	return wordset.New(r.Words)
}

// Text returns the assembled text of every word in reading order
func (r Result) Text() string {
	return wordset.AssembleText(wordset.SortReadingOrder(r.Words))
}

// ReadResult decodes a words file and checks its ids
func ReadResult(rd io.Reader) (Result, error) {
	var r Result
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return r, fmt.Errorf("failed to decode words: %w", err)
	}
	if _, err := r.Set(); err != nil {
		return r, err
	}
	return r, nil
}

// WriteResult encodes a words file
func WriteResult(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode words: %w", err)
	}
	return nil
}

// Renumber assigns word ids 1..n in order. Providers use it so ids are
// stable regardless of how the engine numbers its output.
func Renumber(words []wordset.Word) []wordset.Word {
	out := make([]wordset.Word, len(words))
	for i, w := range words {
		w.ID = i + 1
		out[i] = w
	}
	return out
}
