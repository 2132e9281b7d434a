// Package gdocai recognizes words with Google Document AI.
//
// The Provider sends an image to a Document AI OCR processor and converts the
// returned tokens into word boxes in image pixels. Document AI reports token
// geometry as normalized vertices; they are scaled by the page dimension.
// Each token is assigned the line whose text anchor contains it.
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Credentials via Config.CredentialsFile or GOOGLE_APPLICATION_CREDENTIALS
package gdocai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrselect/pkg/ocr"
)

// Config holds the Document AI processor settings
type Config struct {
	ProjectID       string             `yaml:"project_id"`
	Location        string             `yaml:"location"` // e.g. "eu" or "us"
	ProcessorID     string             `yaml:"processor_id"`
	CredentialsFile string             `yaml:"credentials_file"` // Empty = GOOGLE_APPLICATION_CREDENTIALS
	Logger          logrus.FieldLogger `yaml:"-"`
}

// Validate reports missing processor settings
func (c Config) Validate() error {
	var errs []error
	if c.ProjectID == "" {
		errs = append(errs, errors.New("project_id is required"))
	}
	if c.Location == "" {
		errs = append(errs, errors.New("location is required"))
	}
	if c.ProcessorID == "" {
		errs = append(errs, errors.New("processor_id is required"))
	}
	return errors.Join(errs...)
}

// Provider is an ocr.Provider backed by Document AI
type Provider struct {
	cfg Config
	log logrus.FieldLogger
}

// New creates a Document AI provider
func New(cfg Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Document AI config: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Provider{cfg: cfg, log: log.WithField("provider", "gdocai")}, nil
}

// Name implements ocr.Provider
func (p *Provider) Name() string { return "gdocai" }

// Recognize implements ocr.Provider
func (p *Provider) Recognize(ctx context.Context, img ocr.Image) (ocr.Result, error) {
	p.log.WithFields(logrus.Fields{"image": img.Name, "mime": img.MimeType}).Info("sending image to Document AI")

	doc, err := ProcessDocument(ctx, img.Data, img.MimeType, p.cfg)
	if err != nil {
		return ocr.Result{}, err
	}
	if len(doc.GetPages()) == 0 {
		return ocr.Result{}, ocr.ErrNoWords
	}
	if len(doc.GetPages()) > 1 {
		p.log.WithField("pages", len(doc.GetPages())).Warn("multi-page response, using the first page")
	}

	page := PageFromProto(doc.GetPages()[0], doc.GetText())
	res, err := p.result(page, doc.GetText(), img)
	if err != nil {
		return ocr.Result{}, err
	}
	p.log.WithField("words", len(res.Words)).Info("Document AI recognized words")
	return res, nil
}

// result converts a page to a result. A page with text but no token geometry
// gets estimated word boxes.
func (p *Provider) result(page Page, text string, img ocr.Image) (ocr.Result, error) {
	res := ocr.Result{
		Provider: p.Name(),
		Image:    img.Name,
		Width:    page.Width,
		Height:   page.Height,
		Words:    page.Words,
	}
	if res.Width == 0 || res.Height == 0 {
		res.Width, res.Height = img.Width, img.Height
	}
	if len(res.Words) > 0 {
		return res, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ocr.Result{}, ocr.ErrNoWords
	}
	if res.Width == 0 || res.Height == 0 {
		res.Width, res.Height = ocr.EstimateSize(text)
	}
	res.Words = ocr.EstimateWords(text, res.Width, res.Height)
	p.log.WithField("words", len(res.Words)).Warn("no token geometry, word boxes estimated from text")
	return res, nil
}
