package viewport

import (
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// AnchorConfig sizes and offsets the floating editor
type AnchorConfig struct {
	VerticalOffset float64 `yaml:"vertical_offset"` // Gap between selection bottom and popup
	Padding        float64 `yaml:"padding"`         // Added to the selection width
	MinWidth       float64 `yaml:"min_width"`       // Popup width lower bound
	MaxWidth       float64 `yaml:"max_width"`       // Popup width upper bound
	LeftMargin     float64 `yaml:"left_margin"`     // Smallest allowed x
	InputMinWidth  float64 `yaml:"input_min_width"` // Text field width lower bound
	InputMaxWidth  float64 `yaml:"input_max_width"` // Text field width upper bound
	PerCharWidth   float64 `yaml:"per_char_width"`  // Width of one display cell
	InputChrome    float64 `yaml:"input_chrome"`    // Buttons and padding around the text
}

// DefaultAnchorConfig returns the standard popup geometry
func DefaultAnchorConfig() AnchorConfig {
	return AnchorConfig{
		VerticalOffset: 12,
		Padding:        100,
		MinWidth:       200,
		MaxWidth:       400,
		LeftMargin:     10,
		InputMinWidth:  150,
		InputMaxWidth:  500,
		PerCharWidth:   8,
		InputChrome:    60,
	}
}

// Anchor is where the floating editor goes, in rendered pixels relative to the image
type Anchor struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Visible bool    `json:"visible"`
}

// Place centers a popup under the bounding box of words.
// The bottom comes from the lowest word regardless of reading order.
// Words must not be empty; an empty slice yields a hidden zero anchor.
func Place(words []wordset.Word, s State, cfg AnchorConfig) Anchor {
	if len(words) == 0 {
		return Anchor{}
	}
	left, right := math.Inf(1), math.Inf(-1)
	bottom := words[len(words)-1]
	for _, w := range words {
		left = math.Min(left, w.Left)
		right = math.Max(right, w.Right())
		if w.Bottom() > bottom.Bottom() {
			bottom = w
		}
	}
	topLeft := ToViewport(wordset.Point{X: left}, s, wordset.Point{})
	bottomRight := ToViewport(wordset.Point{X: right, Y: bottom.Bottom()}, s, wordset.Point{})

	width := clamp(bottomRight.X-topLeft.X+cfg.Padding, cfg.MinWidth, cfg.MaxWidth)
	center := (topLeft.X + bottomRight.X) / 2

	return Anchor{
		X:       math.Max(cfg.LeftMargin, center-width/2),
		Y:       bottomRight.Y + cfg.VerticalOffset,
		Width:   width,
		Visible: true,
	}
}

// InputWidth sizes the text field from the text it shows.
// Wide runes count as two cells.
func InputWidth(text string, cfg AnchorConfig) float64 {
	cells := float64(runewidth.StringWidth(text))
	return clamp(cells*cfg.PerCharWidth+cfg.InputChrome, cfg.InputMinWidth, cfg.InputMaxWidth)
}
