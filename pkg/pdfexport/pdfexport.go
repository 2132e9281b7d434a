// Package pdfexport writes searchable PDFs from OCR word boxes.
//
// Each page shows the source image with an invisible text layer placed at the
// exact position of every recognized word, so the PDF is searchable and its
// text selectable. The current selection can be added as a separate
// highlight layer that PDF readers can toggle.
//
// Main Functions:
//
// - Export: writes pages of images and words as a PDF
// - DetectLayers / CheckLayers: inspect optional content layers of a PDF
package pdfexport

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/wordset"
)

// Page is one image with its words and the selected word ids
type Page struct {
	Image    ocr.Image
	Words    []wordset.Word
	Selected wordset.IDSet
}

// fpdf embeds these formats directly; anything else is converted to PNG
var nativeFormats = map[string]string{
	"jpeg": "JPG",
	"png":  "PNG",
	"gif":  "GIF",
}

// Export writes pages as a PDF. Page size in points equals the image size in
// pixels, so word boxes need no scaling.
func Export(w io.Writer, pages []Page, cfg Config) error {
	if len(pages) == 0 {
		return errors.New("no pages to export")
	}
	log := getLogger(cfg)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreator("ocrselect", true)
	if cfg.Debug {
		pdf.SetCompression(false)
	}

	for i, page := range pages {
		img := page.Image
		if img.Width == 0 || img.Height == 0 {
			return fmt.Errorf("page %d: image size unknown", i+1)
		}
		width, height := float64(img.Width), float64(img.Height)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})

		data, imageType, err := embeddable(img)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("img%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		pdf.ImageOptions(name, 0, 0, width, height, false, opts, 0, "")

		stats := drawTextLayer(pdf, page.Words, cfg)
		if stats.encodingErrors > 0 {
			log.WithFields(logrus.Fields{
				"page":   i + 1,
				"words":  stats.words,
				"failed": stats.encodingErrors,
			}).Warn("words not representable in the PDF font encoding")
		}
		if selected := selectedWords(page); len(selected) > 0 {
			drawSelectionLayer(pdf, selected, cfg)
		}
		log.WithFields(logrus.Fields{"page": i + 1, "words": stats.words}).Debug("page written")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// embeddable returns image data in a format fpdf can embed
func embeddable(img ocr.Image) ([]byte, string, error) {
	if t, ok := nativeFormats[img.Format]; ok {
		return img.Data, t, nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s image: %w", img.Format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, "", fmt.Errorf("failed to convert %s image to PNG: %w", img.Format, err)
	}
	return buf.Bytes(), "PNG", nil
}

func selectedWords(page Page) []wordset.Word {
	if page.Selected.Len() == 0 {
		return nil
	}
	var out []wordset.Word
	for _, w := range page.Words {
		if page.Selected.Has(w.ID) {
			out = append(out, w)
		}
	}
	return out
}
