package pdfexport

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config holds PDF export options
type Config struct {
	Debug              bool               `yaml:"debug"`                // Visible red text and word boxes, uncompressed output
	LayerName          string             `yaml:"layer_name"`           // Name of the text layer
	SelectionLayerName string             `yaml:"selection_layer_name"` // Name of the highlight layer
	HighlightColor     [3]int             `yaml:"highlight_color"`      // RGB fill of selected words
	HighlightAlpha     float64            `yaml:"highlight_alpha"`      // Opacity of the highlight
	Font               FontConfig         `yaml:"font"`
	Logger             logrus.FieldLogger `yaml:"-"` // nil = discard
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName:          "OCR Text",
		SelectionLayerName: "Selection",
		HighlightColor:     [3]int{255, 221, 0},
		HighlightAlpha:     0.35,
		Font:               DefaultFont,
	}
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name        string  `yaml:"name"`         // Core font name, e.g. "Helvetica"
	Style       string  `yaml:"style"`        // "", "B", "I" or "BI"
	Size        float64 `yaml:"size"`         // Base size before fitting to the word box
	AscentRatio float64 `yaml:"ascent_ratio"` // Baseline offset as a fraction of the size
}

// DefaultFont is Helvetica, which core PDF viewers always have
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

func getLogger(cfg Config) logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
