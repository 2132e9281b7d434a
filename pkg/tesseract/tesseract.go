// Package tesseract recognizes words locally with Tesseract through gosseract.
package tesseract

import (
	"context"
	"fmt"
	"io"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/wordset"
)

// Config holds tesseract settings
type Config struct {
	Languages      []string           `yaml:"languages"`       // Tesseract language codes, e.g. ["eng", "isl"]
	TessdataPrefix string             `yaml:"tessdata_prefix"` // Empty = tesseract default
	PageSegMode    int                `yaml:"page_seg_mode"`   // 0 = tesseract default (PSM_AUTO)
	Whitelist      string             `yaml:"whitelist"`       // Restrict recognized characters
	Logger         logrus.FieldLogger `yaml:"-"`
}

// DefaultConfig returns English recognition with automatic page segmentation
func DefaultConfig() Config {
	return Config{Languages: []string{"eng"}}
}

// Provider is an ocr.Provider backed by a local tesseract install
type Provider struct {
	cfg Config
	log logrus.FieldLogger
}

// New creates a tesseract provider
func New(cfg Config) *Provider {
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Provider{cfg: cfg, log: log.WithField("provider", "tesseract")}
}

// Name implements ocr.Provider
func (p *Provider) Name() string { return "tesseract" }

// Recognize implements ocr.Provider. Tesseract cannot be interrupted, so ctx
// is only checked before recognition starts.
func (p *Provider) Recognize(ctx context.Context, img ocr.Image) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if p.cfg.TessdataPrefix != "" {
		client.SetTessdataPrefix(p.cfg.TessdataPrefix)
	}
	if len(p.cfg.Languages) > 0 {
		if err := client.SetLanguage(p.cfg.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("failed to set language: %w", err)
		}
	}
	if p.cfg.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(p.cfg.PageSegMode)); err != nil {
			return ocr.Result{}, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	if p.cfg.Whitelist != "" {
		if err := client.SetWhitelist(p.cfg.Whitelist); err != nil {
			return ocr.Result{}, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(img.Data); err != nil {
		return ocr.Result{}, fmt.Errorf("failed to set image: %w", err)
	}

	p.log.WithFields(logrus.Fields{"image": img.Name, "languages": p.cfg.Languages}).Info("running tesseract")
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("OCR failed: %w", err)
	}

	words := WordsFromBoxes(boxes)
	if len(words) == 0 {
		return ocr.Result{}, ocr.ErrNoWords
	}
	p.log.WithField("words", len(words)).Info("tesseract recognized words")

	return ocr.Result{
		Provider: p.Name(),
		Image:    img.Name,
		Width:    img.Width,
		Height:   img.Height,
		Words:    words,
	}, nil
}

// lineKey identifies a text line in tesseract's layout hierarchy
type lineKey struct{ block, par, line int }

// WordsFromBoxes converts word level boxes into words. Words are numbered in
// tesseract's order and every distinct (block, paragraph, line) triple gets
// the next line id. Empty words are dropped.
func WordsFromBoxes(boxes []gosseract.BoundingBox) []wordset.Word {
	lines := make(map[lineKey]int)
	var words []wordset.Word
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		key := lineKey{box.BlockNum, box.ParNum, box.LineNum}
		lineID, ok := lines[key]
		if !ok {
			lineID = len(lines) + 1
			lines[key] = lineID
		}

		w := wordset.Word{
			ID:     len(words) + 1,
			Text:   box.Word,
			Left:   float64(box.Box.Min.X),
			Top:    float64(box.Box.Min.Y),
			Width:  float64(box.Box.Dx()),
			Height: float64(box.Box.Dy()),
			LineID: lineID,
		}
		if box.Confidence >= 0 {
			conf := box.Confidence / 100
			w.Confidence = &conf
		}
		words = append(words, w)
	}
	return words
}
