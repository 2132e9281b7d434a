// Package viewport converts between screen space and image-intrinsic space and
// places the floating editor anchor under a selection.
//
// Zoom is applied by the rendering layer as a visual transform, so the scale is
// never cached here: every conversion reads the live element geometry through
// the Element interface.
//
// Main types and functions:
//
// - Layout and Element: live geometry of the rendered image
// - State: zoom level plus natural and rendered sizes
// - ToImageSpace and Mapper: viewport pixels to image pixels
// - Zoom: discrete and wheel based zoom level control
// - Place and InputWidth: floating anchor placement and sizing
package viewport

import "github.com/gardar/ocrselect/pkg/wordset"

// Layout is the live geometry of the image element
type Layout struct {
	Origin         wordset.Point // Top-left corner of the rendered image in viewport pixels
	NaturalWidth   float64       // Intrinsic image width
	NaturalHeight  float64       // Intrinsic image height
	RenderedWidth  float64       // Current on-screen width
	RenderedHeight float64       // Current on-screen height
}

// Element exposes the geometry of the image element.
// ok is false while the image is not mounted or not yet laid out.
type Element interface {
	Layout() (layout Layout, ok bool)
}

// State is the viewport state consumed by the mapper and the positioner
type State struct {
	Zoom           float64
	NaturalWidth   float64
	NaturalHeight  float64
	RenderedWidth  float64
	RenderedHeight float64
}

// StateOf combines a zoom level with a measured layout
func StateOf(zoom float64, l Layout) State {
	return State{
		Zoom:           zoom,
		NaturalWidth:   l.NaturalWidth,
		NaturalHeight:  l.NaturalHeight,
		RenderedWidth:  l.RenderedWidth,
		RenderedHeight: l.RenderedHeight,
	}
}

// Valid reports whether both sizes are known and non-zero
func (s State) Valid() bool {
	return s.NaturalWidth > 0 && s.NaturalHeight > 0 &&
		s.RenderedWidth > 0 && s.RenderedHeight > 0
}

// ScaleX is rendered pixels per image pixel along x
func (s State) ScaleX() float64 {
	if s.NaturalWidth == 0 {
		return 0
	}
	return s.RenderedWidth / s.NaturalWidth
}

// ScaleY is rendered pixels per image pixel along y
func (s State) ScaleY() float64 {
	if s.NaturalHeight == 0 {
		return 0
	}
	return s.RenderedHeight / s.NaturalHeight
}
