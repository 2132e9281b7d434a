package selection

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// Mode is the engine's drag state
type Mode int

const (
	Idle Mode = iota
	RangeDragging
	RectangleDragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case RangeDragging:
		return "range"
	case RectangleDragging:
		return "rectangle"
	}
	return "unknown"
}

// drag is the state of an in-progress gesture
type drag struct {
	mode    Mode
	anchor  wordset.Word  // Word under the initial pointer-down (range drags)
	lastHit int           // Last word resolved during a range drag
	start   wordset.Point // Rectangle start in image pixels
	current wordset.Point // Rectangle end in image pixels
	down    wordset.Point // Rectangle start in viewport pixels
	last    wordset.Point // Rectangle end in viewport pixels
}

// Engine is the selection state machine. It is not safe for concurrent use;
// callers serialize access (see the session package).
type Engine struct {
	cfg      Config
	log      logrus.FieldLogger
	mapper   Mapper
	pointers PointerSource
	frames   FrameRequester
	listener Listener
	now      func() time.Time
	limiter  *rate.Limiter

	words   *wordset.Set
	sel     Selection
	drag    drag
	release func()
	cancel  func()
}

// NewEngine creates an idle engine over words. mapper may be nil until the
// image is mounted; pointer events are ignored while it is.
func NewEngine(words *wordset.Set, mapper Mapper, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		log:    getLogger(cfg),
		mapper: mapper,
		now:    time.Now,
		words:  words,
		sel:    Empty(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.limiter = e.newLimiter()
	return e
}

func (e *Engine) newLimiter() *rate.Limiter {
	if e.cfg.ThrottleInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(e.cfg.ThrottleInterval), 1)
}

// SetMapper replaces the coordinate mapper, e.g. when the image is remounted
func (e *Engine) SetMapper(m Mapper) {
	e.mapper = m
}

// Selection returns the current selection
func (e *Engine) Selection() Selection { return e.sel }

// Mode returns the current drag state
func (e *Engine) Mode() Mode { return e.drag.mode }

// Words returns the word set the engine selects from
func (e *Engine) Words() *wordset.Set { return e.words }

// DragBox returns the marquee in image pixels while a rectangle drag is active
func (e *Engine) DragBox() (wordset.Rect, bool) {
	if e.drag.mode != RectangleDragging {
		return wordset.Rect{}, false
	}
	return wordset.RectFromPoints(e.drag.start, e.drag.current), true
}

// WordAt returns the word under a viewport position
func (e *Engine) WordAt(vx, vy float64) (wordset.Word, bool) {
	p, ok := e.toImage(vx, vy)
	if !ok {
		return wordset.Word{}, false
	}
	return e.words.FindAtPoint(p)
}

func (e *Engine) toImage(vx, vy float64) (wordset.Point, bool) {
	if e.mapper == nil {
		return wordset.Point{}, false
	}
	return e.mapper.ToImageSpace(vx, vy)
}

// PointerDown starts a gesture. On a word it applies click semantics and
// begins a range drag anchored at that word; on empty space it begins a
// rectangle drag. Does nothing while the image has no geometry.
func (e *Engine) PointerDown(ev PointerEvent) {
	if e.drag.mode != Idle {
		// The up event of the previous gesture was lost
		e.Cancel()
	}
	p, ok := e.toImage(ev.X, ev.Y)
	if !ok {
		return
	}
	e.limiter = e.newLimiter()

	if w, hit := e.words.FindAtPoint(p); hit {
		e.click(w, ev)
		e.drag = drag{mode: RangeDragging, anchor: w, lastHit: w.ID}
		e.log.WithFields(logrus.Fields{"word": w.ID, "clicks": ev.ClickCount}).Debug("range drag started")
	} else {
		vp := wordset.Point{X: ev.X, Y: ev.Y}
		e.drag = drag{mode: RectangleDragging, start: p, current: p, down: vp, last: vp}
		e.log.WithFields(logrus.Fields{"x": p.X, "y": p.Y}).Debug("rectangle drag started")
		e.emitBox()
	}
	e.capture()
}

// click applies single-word click semantics.
// Precedence: double-click, ctrl/cmd toggle, shift range, plain.
func (e *Engine) click(w wordset.Word, ev PointerEvent) {
	var ids wordset.IDSet
	switch {
	case ev.ClickCount >= 2:
		ids = wordset.IDsOf(e.words.Line(w.LineID))
	case ev.Modifiers.Ctrl || ev.Modifiers.Meta:
		ids = e.sel.IDs()
		ids.Toggle(w.ID)
	case ev.Modifiers.Shift && !e.sel.IsEmpty():
		last, _ := e.sel.Last()
		ids = wordset.IDsOf(e.words.WordsBetween(last, w))
	}
	if ids == nil {
		ids = wordset.NewIDSet(w.ID)
	}
	e.set(ids)
}

// PointerMove tracks the pointer during a drag. Moves arriving faster than
// the throttle interval are dropped.
func (e *Engine) PointerMove(ev PointerEvent) {
	if e.drag.mode == Idle {
		return
	}
	if !e.limiter.AllowN(e.now(), 1) {
		return
	}
	e.track(ev)
}

func (e *Engine) track(ev PointerEvent) {
	p, ok := e.toImage(ev.X, ev.Y)
	if !ok {
		return
	}
	switch e.drag.mode {
	case RangeDragging:
		w, hit := e.words.FindAtPoint(p)
		if !hit || w.ID == e.drag.lastHit {
			return
		}
		e.drag.lastHit = w.ID
		e.set(wordset.IDsOf(e.words.WordsBetween(e.drag.anchor, w)))
	case RectangleDragging:
		e.drag.current = p
		e.drag.last = wordset.Point{X: ev.X, Y: ev.Y}
		e.scheduleBox()
	}
}

// PointerUp ends the gesture. The up position is applied first, so the final
// pointer position wins even if the last moves were throttled. A rectangle
// whose on-screen size does not exceed the minimum drag distance in both axes
// leaves the selection unchanged, whatever the display scale.
func (e *Engine) PointerUp(ev PointerEvent) {
	if e.drag.mode == Idle {
		return
	}
	e.track(ev)

	if e.drag.mode == RectangleDragging {
		box := wordset.RectFromPoints(e.drag.start, e.drag.current)
		moved := wordset.RectFromPoints(e.drag.down, e.drag.last)
		threshold := e.cfg.MinDragDistance
		if moved.Width > threshold && moved.Height > threshold {
			ids := e.words.FindInRectangle(box)
			e.log.WithFields(logrus.Fields{"box": box, "words": ids.Len()}).Debug("rectangle committed")
			e.set(ids)
		}
		e.hideBox()
	}
	e.finish()
}

// Cancel aborts an active drag without committing a rectangle.
// Selection updates already applied by a range drag are kept.
// Reports whether a drag was active.
func (e *Engine) Cancel() bool {
	if e.drag.mode == Idle {
		return false
	}
	e.log.WithField("mode", e.drag.mode).Debug("drag cancelled")
	if e.drag.mode == RectangleDragging {
		e.hideBox()
	}
	e.finish()
	return true
}

// Select replaces the selection with ids. Unknown ids are dropped.
func (e *Engine) Select(ids wordset.IDSet) {
	e.set(ids)
}

// Clear empties the selection
func (e *Engine) Clear() {
	e.set(wordset.IDSet{})
}

// Reset swaps the word set, aborting any drag and clearing the selection
func (e *Engine) Reset(words *wordset.Set) {
	e.Cancel()
	e.words = words
	e.set(wordset.IDSet{})
}

// Close aborts any drag so no global listener outlives the engine
func (e *Engine) Close() {
	e.Cancel()
}

func (e *Engine) set(ids wordset.IDSet) {
	e.sel = New(e.words, ids)
	if e.listener != nil {
		e.listener.SelectionChanged(e.sel)
	}
}

func (e *Engine) capture() {
	if e.pointers == nil || e.release != nil {
		return
	}
	e.release = e.pointers.Capture(e)
}

func (e *Engine) finish() {
	e.drag = drag{}
	if e.release != nil {
		release := e.release
		e.release = nil
		release()
	}
	if e.cancel != nil {
		cancel := e.cancel
		e.cancel = nil
		cancel()
	}
}

func (e *Engine) scheduleBox() {
	if e.frames == nil {
		e.emitBox()
		return
	}
	if e.cancel != nil {
		return
	}
	e.cancel = e.frames.RequestFrame(func() {
		e.cancel = nil
		e.emitBox()
	})
}

func (e *Engine) emitBox() {
	box, ok := e.DragBox()
	if !ok || e.listener == nil {
		return
	}
	e.listener.DragBoxChanged(box, true)
}

func (e *Engine) hideBox() {
	if e.listener != nil {
		e.listener.DragBoxChanged(wordset.Rect{}, false)
	}
}
