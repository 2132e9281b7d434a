package selection

import "github.com/gardar/ocrselect/pkg/wordset"

// Modifiers are the keyboard modifiers held during a pointer event
type Modifiers struct {
	Ctrl  bool `yaml:"ctrl" json:"ctrl,omitempty"`
	Meta  bool `yaml:"meta" json:"meta,omitempty"`
	Shift bool `yaml:"shift" json:"shift,omitempty"`
}

// PointerEvent is a pointer position in viewport pixels
type PointerEvent struct {
	X          float64   `yaml:"x" json:"x"`
	Y          float64   `yaml:"y" json:"y"`
	Modifiers  Modifiers `yaml:"modifiers" json:"modifiers"`
	ClickCount int       `yaml:"clicks" json:"clicks,omitempty"` // Platform click count; 2 on double-click
}

// PointerHandler receives the global move and up events of a drag
type PointerHandler interface {
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
}

// PointerSource installs global move/up listeners. The returned release func
// removes them and must be safe to call more than once.
type PointerSource interface {
	Capture(h PointerHandler) (release func())
}

// FrameRequester schedules fn before the next repaint, like requestAnimationFrame.
// The returned cancel func drops a pending request.
type FrameRequester interface {
	RequestFrame(fn func()) (cancel func())
}

// Mapper converts viewport pixels to image pixels.
// ok is false when the image is not laid out.
type Mapper interface {
	ToImageSpace(vx, vy float64) (p wordset.Point, ok bool)
}

// Listener observes engine output
type Listener interface {
	// SelectionChanged is called after every selection update
	SelectionChanged(sel Selection)
	// DragBoxChanged reports the marquee box in image pixels, at most once per frame
	DragBoxChanged(box wordset.Rect, visible bool)
}

// ListenerFuncs adapts plain functions to a Listener. Nil funcs are skipped.
type ListenerFuncs struct {
	OnSelection func(Selection)
	OnDragBox   func(wordset.Rect, bool)
}

// SelectionChanged implements Listener
func (l ListenerFuncs) SelectionChanged(sel Selection) {
	if l.OnSelection != nil {
		l.OnSelection(sel)
	}
}

// DragBoxChanged implements Listener
func (l ListenerFuncs) DragBoxChanged(box wordset.Rect, visible bool) {
	if l.OnDragBox != nil {
		l.OnDragBox(box, visible)
	}
}
