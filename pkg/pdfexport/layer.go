package pdfexport

import (
	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrselect/pkg/wordset"
)

type layerStats struct {
	words          int
	encodingErrors int
}

// drawTextLayer draws every word on a text layer, hidden unless debugging
func drawTextLayer(pdf *fpdf.Fpdf, words []wordset.Word, cfg Config) layerStats {
	var stats layerStats

	layer := pdf.AddLayer(cfg.LayerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)
	if cfg.Debug {
		pdf.SetTextColor(255, 0, 0)
		pdf.SetDrawColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal")
	}

	for _, w := range words {
		if !drawWord(pdf, w, cfg) {
			stats.encodingErrors++
		}
		stats.words++
	}

	pdf.SetAlpha(1.0, "Normal")
	pdf.SetTextColor(0, 0, 0)
	pdf.EndLayer()
	return stats
}

// drawWord renders a single word scaled to its box width.
// Reports false if the text had to be written with unencodable runes.
func drawWord(pdf *fpdf.Fpdf, w wordset.Word, cfg Config) bool {
	// Core fonts use cp1252
	text, err := charmap.Windows1252.NewEncoder().String(w.Text)
	ok := err == nil
	if !ok {
		text = w.Text
	}

	if strWidth := pdf.GetStringWidth(text); strWidth > 0 {
		pdf.SetFontSize(cfg.Font.Size * w.Width / strWidth)
	}
	fontSize, _ := pdf.GetFontSize()
	pdf.Text(w.Left, w.Top+fontSize*cfg.Font.AscentRatio, text)
	pdf.SetFontSize(cfg.Font.Size)

	if cfg.Debug {
		pdf.Rect(w.Left, w.Top, w.Width, w.Height, "D")
	}
	return ok
}

// drawSelectionLayer fills the selected word boxes on their own layer
func drawSelectionLayer(pdf *fpdf.Fpdf, words []wordset.Word, cfg Config) {
	layer := pdf.AddLayer(cfg.SelectionLayerName, true)
	pdf.BeginLayer(layer)

	c := cfg.HighlightColor
	pdf.SetFillColor(c[0], c[1], c[2])
	pdf.SetAlpha(cfg.HighlightAlpha, "Multiply")
	for _, w := range words {
		pdf.Rect(w.Left, w.Top, w.Width, w.Height, "F")
	}
	pdf.SetAlpha(1.0, "Normal")

	pdf.EndLayer()
}
