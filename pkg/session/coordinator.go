package session

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrselect/pkg/selection"
	"github.com/gardar/ocrselect/pkg/viewport"
	"github.com/gardar/ocrselect/pkg/wordset"
)

// ZoomIn steps the zoom up. Reports whether the level changed.
func (s *Session) ZoomIn() bool {
	return s.applyZoom("in", (*viewport.Zoom).In)
}

// ZoomOut steps the zoom down. Reports whether the level changed.
func (s *Session) ZoomOut() bool {
	return s.applyZoom("out", (*viewport.Zoom).Out)
}

// ZoomReset returns to the baseline zoom. Reports whether the level changed.
func (s *Session) ZoomReset() bool {
	return s.applyZoom("reset", (*viewport.Zoom).Reset)
}

// Wheel applies a ctrl/cmd+wheel zoom gesture. Positive deltaY zooms out.
func (s *Session) Wheel(deltaY float64) bool {
	return s.applyZoom("wheel", func(z *viewport.Zoom) bool { return z.Wheel(deltaY) })
}

func (s *Session) applyZoom(op string, step func(*viewport.Zoom) bool) bool {
	s.mu.Lock()
	defer s.unlock()
	if s.closed || !step(s.zoom) {
		return false
	}
	level := s.zoom.Level()
	s.log.WithFields(logrus.Fields{"op": op, "zoom": level}).Debug("zoom changed")
	s.notify(func(l Listener) { l.ZoomChanged(level) })

	if s.wantAnchor {
		s.hideAnchor()
		s.debounce(&s.reshow, s.cfg.Timing.ZoomSettle, s.settle)
	}
	return true
}

// Scroll reports that the image's scroll container moved. A drag in
// progress is cancelled; otherwise the anchor hides until scrolling stops.
func (s *Session) Scroll() {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	if s.engine.Cancel() {
		s.log.Debug("drag cancelled by scroll")
		return
	}
	if s.wantAnchor {
		s.hideAnchor()
		s.debounce(&s.reshow, s.cfg.Timing.ScrollQuiet, s.settle)
	}
}

// Resize reports that the window or image element changed size. A drag in
// progress is cancelled; otherwise the anchor is repositioned once resizing
// stops.
func (s *Session) Resize() {
	s.mu.Lock()
	defer s.unlock()
	if s.closed {
		return
	}
	if s.engine.Cancel() {
		s.log.Debug("drag cancelled by resize")
		return
	}
	if s.wantAnchor {
		s.debounce(&s.reposition, s.cfg.Timing.RepositionDelay, s.settle)
	}
}

// settle shows the anchor at a fresh position if the selection still has text
func (s *Session) settle() {
	if !s.wantAnchor || s.reshow.pending() {
		return
	}
	s.placeAnchor()
}

// selectionChanged runs under the lock for every engine selection update
func (s *Session) selectionChanged(sel selection.Selection) {
	ids := sel.IDs()
	if !equalIDs(ids, s.selected) {
		s.edited = nil
	}
	s.selected = ids
	s.notify(func(l Listener) { l.SelectionChanged(sel) })

	if strings.TrimSpace(sel.Text()) == "" {
		s.wantAnchor = false
		s.reshow.stop()
		s.reposition.stop()
		s.hideAnchor()
		return
	}
	s.wantAnchor = true
	if !s.reshow.pending() {
		s.placeAnchor()
	}
}

func (s *Session) placeAnchor() {
	state, ok := s.mapper.State()
	if !ok {
		return
	}
	a := viewport.Place(s.engine.Selection().Words(), state, s.cfg.Anchor)
	if a == s.anchor {
		return
	}
	s.anchor = a
	s.notify(func(l Listener) { l.AnchorChanged(a) })
}

func (s *Session) hideAnchor() {
	if !s.anchor.Visible {
		return
	}
	s.anchor.Visible = false
	a := s.anchor
	s.notify(func(l Listener) { l.AnchorChanged(a) })
}

func equalIDs(a, b wordset.IDSet) bool {
	if a.Len() != b.Len() {
		return false
	}
	for id := range a {
		if !b.Has(id) {
			return false
		}
	}
	return true
}
