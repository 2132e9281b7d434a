package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrselect/pkg/selection"
	"github.com/gardar/ocrselect/pkg/session"
	"github.com/gardar/ocrselect/pkg/viewport"
	"github.com/gardar/ocrselect/pkg/wordset"
)

var (
	replayWords  string
	replayScript string
	replayDump   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Drive a selection session with a recorded event script",
	Long: `Replay pointer, zoom, scroll and resize events against a words file
and print every selection, marquee, zoom and anchor change.

Time is virtual: it advances by tick after every step and by wait steps.

	element: {width: 1000, height: 800}
	tick: 16ms
	steps:
	  - down: {x: 12, y: 15}
	  - move: {x: 300, y: 15}
	  - up: {x: 300, y: 15}
	  - zoom: in
	  - wait: 300ms`,
	RunE: runReplay,
}

func init() {
	RootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVarP(&replayWords, "words", "w", "", "Words file (required)")
	replayCmd.Flags().StringVarP(&replayScript, "script", "s", "", "Event script (required)")
	replayCmd.Flags().BoolVar(&replayDump, "dump", false, "Dump the final session state")
	replayCmd.MarkFlagRequired("words")
	replayCmd.MarkFlagRequired("script")
}

// script is a recorded interaction with the overlay
type script struct {
	Element elementBox    `yaml:"element"`
	Tick    time.Duration `yaml:"tick"` // Virtual time between steps, default one frame
	Steps   []step        `yaml:"steps"`
}

// elementBox places the rendered image at zoom 1. Zero size means the
// image is shown at its natural size.
type elementBox struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// step holds exactly one action
type step struct {
	Down   *selection.PointerEvent `yaml:"down"`
	Move   *selection.PointerEvent `yaml:"move"`
	Up     *selection.PointerEvent `yaml:"up"`
	Hover  *wordset.Point          `yaml:"hover"`
	Zoom   string                  `yaml:"zoom"` // in, out or reset
	Wheel  float64                 `yaml:"wheel"`
	Scroll bool                    `yaml:"scroll"`
	Resize *elementBox             `yaml:"resize"`
	Select []int                   `yaml:"select"`
	Clear  bool                    `yaml:"clear"`
	Edit   *string                 `yaml:"edit"`
	Wait   time.Duration           `yaml:"wait"`
}

func (s step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Down != nil, s.Move != nil, s.Up != nil, s.Hover != nil,
		s.Zoom != "", s.Wheel != 0, s.Scroll, s.Resize != nil,
		s.Select != nil, s.Clear, s.Edit != nil, s.Wait != 0,
	} {
		if set {
			n++
		}
	}
	return n
}

// replayState is the session state after a script
type replayState struct {
	Mode       string
	Selected   []int
	Text       string
	Zoom       float64
	Anchor     viewport.Anchor
	InputWidth float64
}

// replayElement renders the image at its base size times the zoom level
type replayElement struct {
	origin        wordset.Point
	naturalWidth  float64
	naturalHeight float64
	width         float64
	height        float64
	zoom          float64
}

func (e *replayElement) Layout() (viewport.Layout, bool) {
	return viewport.Layout{
		Origin:         e.origin,
		NaturalWidth:   e.naturalWidth,
		NaturalHeight:  e.naturalHeight,
		RenderedWidth:  e.width * e.zoom,
		RenderedHeight: e.height * e.zoom,
	}, true
}

func (e *replayElement) place(g elementBox) {
	e.origin = wordset.Point{X: g.X, Y: g.Y}
	e.width, e.height = e.naturalWidth, e.naturalHeight
	if g.Width > 0 && g.Height > 0 {
		e.width, e.height = g.Width, g.Height
	}
}

func readScript(path string) (script, error) {
	var sc script
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if sc.Tick == 0 {
		sc.Tick = 16 * time.Millisecond
	}
	for i, st := range sc.Steps {
		if st.actions() != 1 {
			return sc, fmt.Errorf("step %d: want exactly one action, got %d", i+1, st.actions())
		}
		if st.Zoom != "" && st.Zoom != "in" && st.Zoom != "out" && st.Zoom != "reset" {
			return sc, fmt.Errorf("step %d: unknown zoom %q", i+1, st.Zoom)
		}
	}
	return sc, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	res, set, err := readWords(replayWords)
	if err != nil {
		return err
	}
	sc, err := readScript(replayScript)
	if err != nil {
		return err
	}
	width, height := float64(res.Width), float64(res.Height)
	if width == 0 || height == 0 {
		return errors.New("words file has no image size")
	}

	state := replay(cmd.OutOrStdout(), set, width, height, sc, cfg.Session)
	if replayDump {
		fmt.Fprintln(cmd.OutOrStdout(), litter.Sdump(state))
	}
	return nil
}

// replay runs sc against a new session and returns the final state.
// Every change the session reports is written to w.
func replay(w io.Writer, set *wordset.Set, naturalWidth, naturalHeight float64, sc script, scfg session.Config) replayState {
	clock := newVirtualClock()
	el := &replayElement{naturalWidth: naturalWidth, naturalHeight: naturalHeight, zoom: viewport.Baseline}
	el.place(sc.Element)

	stamp := func() string {
		return fmt.Sprintf("%6dms", clock.Now().Sub(time.Unix(0, 0)).Milliseconds())
	}
	listener := session.ListenerFuncs{
		OnSelection: func(sel selection.Selection) {
			fmt.Fprintf(w, "%s selection %v %q\n", stamp(), sel.IDs().Sorted(), sel.Text())
		},
		OnDragBox: func(box wordset.Rect, visible bool) {
			if !visible {
				fmt.Fprintf(w, "%s marquee hidden\n", stamp())
				return
			}
			fmt.Fprintf(w, "%s marquee %g,%g %gx%g\n", stamp(), box.Left, box.Top, box.Width, box.Height)
		},
		OnAnchor: func(a viewport.Anchor) {
			if !a.Visible {
				fmt.Fprintf(w, "%s anchor hidden\n", stamp())
				return
			}
			fmt.Fprintf(w, "%s anchor %g,%g width %g\n", stamp(), a.X, a.Y, a.Width)
		},
		OnZoom: func(level float64) {
			el.zoom = level
			fmt.Fprintf(w, "%s zoom %g\n", stamp(), level)
		},
	}

	s := session.New(el, set, scfg, session.WithClock(clock), session.WithListener(listener))
	defer s.Close()

	for _, st := range sc.Steps {
		switch {
		case st.Down != nil:
			s.PointerDown(*st.Down)
		case st.Move != nil:
			s.PointerMove(*st.Move)
		case st.Up != nil:
			s.PointerUp(*st.Up)
		case st.Hover != nil:
			if word, ok := s.HoverAt(st.Hover.X, st.Hover.Y); ok {
				fmt.Fprintf(w, "%s hover %d %q\n", stamp(), word.ID, word.Text)
			} else {
				fmt.Fprintf(w, "%s hover nothing\n", stamp())
			}
		case st.Zoom == "in":
			s.ZoomIn()
		case st.Zoom == "out":
			s.ZoomOut()
		case st.Zoom == "reset":
			s.ZoomReset()
		case st.Wheel != 0:
			s.Wheel(st.Wheel)
		case st.Scroll:
			s.Scroll()
		case st.Resize != nil:
			el.place(*st.Resize)
			s.Resize()
		case st.Select != nil:
			s.Select(wordset.NewIDSet(st.Select...))
		case st.Clear:
			s.Clear()
		case st.Edit != nil:
			s.EditText(*st.Edit)
			fmt.Fprintf(w, "%s text %q\n", stamp(), s.Text())
		case st.Wait != 0:
			clock.Advance(st.Wait)
			continue
		}
		clock.Advance(sc.Tick)
	}

	return replayState{
		Mode:       s.Mode().String(),
		Selected:   s.Selection().IDs().Sorted(),
		Text:       s.Text(),
		Zoom:       s.Zoom(),
		Anchor:     s.Anchor(),
		InputWidth: s.InputWidth(),
	}
}
