package viewport

import "github.com/gardar/ocrselect/pkg/wordset"

// ToImageSpace converts a viewport position into image-intrinsic pixels.
// The result is clamped to the image bounds, which also absorbs float drift
// from the zoom transform. ok is false when the state has no usable geometry;
// callers treat that as "ignore this event".
func ToImageSpace(vx, vy float64, s State, origin wordset.Point) (p wordset.Point, ok bool) {
	if !s.Valid() {
		return wordset.Point{}, false
	}
	x := (vx - origin.X) / s.ScaleX()
	y := (vy - origin.Y) / s.ScaleY()
	return wordset.Point{
		X: clamp(x, 0, s.NaturalWidth),
		Y: clamp(y, 0, s.NaturalHeight),
	}, true
}

// ToViewport converts an image-intrinsic position to viewport pixels
func ToViewport(p wordset.Point, s State, origin wordset.Point) wordset.Point {
	return wordset.Point{
		X: origin.X + p.X*s.ScaleX(),
		Y: origin.Y + p.Y*s.ScaleY(),
	}
}

// Mapper converts pointer positions using live element geometry
type Mapper struct {
	Element Element
	Zoom    *Zoom
}

// State measures the element now. ok is false if it is not laid out.
func (m Mapper) State() (State, bool) {
	if m.Element == nil {
		return State{}, false
	}
	l, ok := m.Element.Layout()
	if !ok {
		return State{}, false
	}
	zoom := 1.0
	if m.Zoom != nil {
		zoom = m.Zoom.Level()
	}
	s := StateOf(zoom, l)
	return s, s.Valid()
}

// ToImageSpace is ToImageSpace against the element's current geometry
func (m Mapper) ToImageSpace(vx, vy float64) (wordset.Point, bool) {
	if m.Element == nil {
		return wordset.Point{}, false
	}
	l, ok := m.Element.Layout()
	if !ok {
		return wordset.Point{}, false
	}
	return ToImageSpace(vx, vy, StateOf(1, l), l.Origin)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
