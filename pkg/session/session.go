// Package session ties the selection engine to a live image viewport.
//
// A Session owns one document's word set, the selection engine, the zoom
// level and the floating anchor that follows the selection. It reacts to
// viewport changes (zoom, scroll, resize) by hiding the anchor, cancelling
// stale drags and repositioning once the viewport has settled.
//
// All methods are safe for concurrent use. Listener callbacks run after the
// session lock is released, in the order the changes happened.
package session

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrselect/pkg/selection"
	"github.com/gardar/ocrselect/pkg/viewport"
	"github.com/gardar/ocrselect/pkg/wordset"
)

// Timing holds the quiet periods of the viewport change coordinator
type Timing struct {
	ZoomSettle      time.Duration `yaml:"zoom_settle"`      // Anchor stays hidden this long after the last zoom
	ScrollQuiet     time.Duration `yaml:"scroll_quiet"`     // Anchor stays hidden this long after the last scroll
	RepositionDelay time.Duration `yaml:"reposition_delay"` // Reposition this long after the last resize
}

// DefaultTiming returns the standard quiet periods
func DefaultTiming() Timing {
	return Timing{
		ZoomSettle:      300 * time.Millisecond,
		ScrollQuiet:     150 * time.Millisecond,
		RepositionDelay: 50 * time.Millisecond,
	}
}

// Config holds session settings
type Config struct {
	Selection selection.Config      `yaml:"selection"`
	Zoom      viewport.ZoomConfig   `yaml:"zoom"`
	Anchor    viewport.AnchorConfig `yaml:"anchor"`
	Timing    Timing                `yaml:"timing"`
	Logger    logrus.FieldLogger    `yaml:"-"` // nil = discard
}

// DefaultConfig returns a config with the standard settings
func DefaultConfig() Config {
	return Config{
		Selection: selection.DefaultConfig(),
		Zoom:      viewport.DefaultZoomConfig(),
		Anchor:    viewport.DefaultAnchorConfig(),
		Timing:    DefaultTiming(),
	}
}

// Listener observes session output
type Listener interface {
	SelectionChanged(sel selection.Selection)
	DragBoxChanged(box wordset.Rect, visible bool)
	AnchorChanged(a viewport.Anchor)
	ZoomChanged(level float64)
}

// ListenerFuncs adapts plain functions to a Listener. Nil funcs are skipped.
type ListenerFuncs struct {
	OnSelection func(selection.Selection)
	OnDragBox   func(wordset.Rect, bool)
	OnAnchor    func(viewport.Anchor)
	OnZoom      func(float64)
}

func (l ListenerFuncs) SelectionChanged(sel selection.Selection) {
	if l.OnSelection != nil {
		l.OnSelection(sel)
	}
}

func (l ListenerFuncs) DragBoxChanged(box wordset.Rect, visible bool) {
	if l.OnDragBox != nil {
		l.OnDragBox(box, visible)
	}
}

func (l ListenerFuncs) AnchorChanged(a viewport.Anchor) {
	if l.OnAnchor != nil {
		l.OnAnchor(a)
	}
}

func (l ListenerFuncs) ZoomChanged(level float64) {
	if l.OnZoom != nil {
		l.OnZoom(level)
	}
}

// Option customizes a Session
type Option func(*Session)

// WithClock replaces the wall clock, mostly for tests
func WithClock(c Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithListener sets the observer of session changes
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// WithPointerSource sets where drag listeners are installed
func WithPointerSource(src selection.PointerSource) Option {
	return func(s *Session) {
		s.pointers = src
	}
}

// WithFrameRequester batches marquee redraws per animation frame
func WithFrameRequester(fr selection.FrameRequester) Option {
	return func(s *Session) {
		s.frames = fr
	}
}

// Session is one open document with its selection and viewport
type Session struct {
	mu       sync.Mutex
	id       string
	cfg      Config
	log      logrus.FieldLogger
	clock    Clock
	listener Listener
	pointers selection.PointerSource
	frames   selection.FrameRequester

	zoom   *viewport.Zoom
	mapper viewport.Mapper
	engine *selection.Engine

	anchor     viewport.Anchor
	selected   wordset.IDSet
	wantAnchor bool    // Selection has text; the anchor shows once the viewport settles
	edited     *string // Text typed over the selection, if any
	reshow     debouncer
	reposition debouncer

	queue  []func(Listener)
	closed bool
}

// New creates a session showing words in el. el may be nil until the image
// is mounted, see Mount.
func New(el viewport.Element, words *wordset.Set, cfg Config, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		clock:      systemClock{},
		zoom:       viewport.NewZoom(cfg.Zoom),
		reshow:     debouncer{name: "reshow"},
		reposition: debouncer{name: "reposition"},
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	s.log = logger.WithField("session", s.id)

	s.mapper = viewport.Mapper{Element: el, Zoom: s.zoom}
	engineCfg := cfg.Selection
	engineCfg.Logger = s.log

	engineOpts := []selection.Option{
		selection.WithListener(engineEvents{s}),
		selection.WithClock(s.clock.Now),
	}
	if s.pointers != nil {
		engineOpts = append(engineOpts, selection.WithPointerSource(lockedPointers{s}))
	}
	if s.frames != nil {
		engineOpts = append(engineOpts, selection.WithFrameRequester(lockedFrames{s}))
	}
	s.engine = selection.NewEngine(words, s.mapper, engineCfg, engineOpts...)

	s.log.WithField("words", words.Len()).Debug("session created")
	return s
}

// unlock releases the session lock and then delivers queued notifications
func (s *Session) unlock() {
	queue := s.queue
	s.queue = nil
	l := s.listener
	s.mu.Unlock()

	if l == nil {
		return
	}
	for _, fn := range queue {
		fn(l)
	}
}

func (s *Session) notify(fn func(Listener)) {
	s.queue = append(s.queue, fn)
}

// ID returns the session's unique id
func (s *Session) ID() string { return s.id }

// Mount points the session at a (re)mounted image element. el must be a live
// element; a typed nil pointer is not detected. Use Unmount to detach.
func (s *Session) Mount(el viewport.Element) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	if el == nil {
		s.detach()
		return
	}
	s.mapper.Element = el
	s.engine.SetMapper(s.mapper)
	if s.wantAnchor && !s.reshow.pending() {
		s.placeAnchor()
	}
}

// Unmount detaches the image element. A drag in progress is cancelled and the
// anchor hides; the selection is kept and the anchor returns on the next Mount.
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.detach()
}

func (s *Session) detach() {
	if s.engine.Cancel() {
		s.log.Debug("drag cancelled by unmount")
	}
	s.mapper.Element = nil
	s.engine.SetMapper(s.mapper)
	s.hideAnchor()
}

// Load replaces the document. Selection, drag, zoom, anchor and pending
// timers are all reset before the new words are installed.
func (s *Session) Load(words *wordset.Set) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.reshow.stop()
	s.reposition.stop()
	if s.zoom.Reset() {
		level := s.zoom.Level()
		s.notify(func(l Listener) { l.ZoomChanged(level) })
	}
	s.engine.Reset(words)
	s.log.WithField("words", words.Len()).Info("document loaded")
}

// Words returns the current document's words
func (s *Session) Words() *wordset.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Words()
}

// Selection returns the current selection
func (s *Session) Selection() selection.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Selection()
}

// Mode returns the engine's drag state
func (s *Session) Mode() selection.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Mode()
}

// DragBox returns the marquee in image pixels while a rectangle drag is active
func (s *Session) DragBox() (wordset.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.DragBox()
}

// Anchor returns the floating anchor
func (s *Session) Anchor() viewport.Anchor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// Zoom returns the current zoom level
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom.Level()
}

// Text returns the edited text if the user typed over the selection,
// otherwise the selection's assembled text
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text()
}

func (s *Session) text() string {
	if s.edited != nil {
		return *s.edited
	}
	return s.engine.Selection().Text()
}

// EditText replaces the displayed text of the current selection. The edit
// is dropped as soon as the selected words change. Ignored without a selection.
func (s *Session) EditText(text string) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || s.engine.Selection().IsEmpty() {
		return
	}
	s.edited = &text
}

// InputWidth returns the width of the anchor's text input for the current text
func (s *Session) InputWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewport.InputWidth(s.text(), s.cfg.Anchor)
}

// HoverAt returns the word under a viewport position without changing state
func (s *Session) HoverAt(vx, vy float64) (wordset.Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return wordset.Word{}, false
	}
	return s.engine.WordAt(vx, vy)
}

// PointerDown forwards a pointer-down on the image to the engine
func (s *Session) PointerDown(ev selection.PointerEvent) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.engine.PointerDown(ev)
}

// PointerMove forwards a global pointer move to the engine
func (s *Session) PointerMove(ev selection.PointerEvent) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.engine.PointerMove(ev)
}

// PointerUp forwards a global pointer-up to the engine
func (s *Session) PointerUp(ev selection.PointerEvent) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.engine.PointerUp(ev)
}

// Select replaces the selection with ids
func (s *Session) Select(ids wordset.IDSet) {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.engine.Select(ids)
}

// Clear empties the selection
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.engine.Clear()
}

// Close aborts any drag and stops pending timers. Later calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	s.engine.Close()
	s.reshow.stop()
	s.reposition.stop()
	s.closed = true
	s.log.Debug("session closed")
}

// engineEvents receives engine callbacks. The session lock is already held.
type engineEvents struct{ s *Session }

func (e engineEvents) SelectionChanged(sel selection.Selection) {
	e.s.selectionChanged(sel)
}

func (e engineEvents) DragBoxChanged(box wordset.Rect, visible bool) {
	e.s.notify(func(l Listener) { l.DragBoxChanged(box, visible) })
}

// lockedPointers routes captured global events back through the session lock
type lockedPointers struct{ s *Session }

func (p lockedPointers) Capture(selection.PointerHandler) func() {
	return p.s.pointers.Capture(sessionHandler{p.s})
}

type sessionHandler struct{ s *Session }

func (h sessionHandler) PointerMove(ev selection.PointerEvent) { h.s.PointerMove(ev) }
func (h sessionHandler) PointerUp(ev selection.PointerEvent)   { h.s.PointerUp(ev) }

// lockedFrames runs frame callbacks under the session lock
type lockedFrames struct{ s *Session }

func (f lockedFrames) RequestFrame(fn func()) func() {
	return f.s.frames.RequestFrame(func() {
		f.s.mu.Lock()
		defer f.s.unlock()
		if f.s.closed {
			return
		}
		fn()
	})
}
