package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/session"
	"github.com/gardar/ocrselect/pkg/wordset"
)

var sampleWords = []wordset.Word{
	{ID: 1, Text: "Hello", Left: 10, Top: 10, Width: 50, Height: 20, LineID: 0},
	{ID: 2, Text: "World", Left: 70, Top: 10, Width: 50, Height: 20, LineID: 0},
	{ID: 3, Text: "This", Left: 10, Top: 40, Width: 40, Height: 20, LineID: 1},
	{ID: 4, Text: "is", Left: 60, Top: 40, Width: 20, Height: 20, LineID: 1},
	{ID: 5, Text: "test", Left: 90, Top: 40, Width: 40, Height: 20, LineID: 1},
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func wordsFile(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	res := ocr.Result{Provider: "test", Image: "scan.png", Width: 1000, Height: 800, Words: sampleWords}
	if err := ocr.WriteResult(&buf, res); err != nil {
		t.Fatal(err)
	}
	return writeTemp(t, "words.json", buf.Bytes())
}

func TestParseIDs(t *testing.T) {
	got, err := parseIDs("3, 1,,2")
	if err != nil {
		t.Fatalf("parseIDs() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got.Sorted()); diff != "" {
		t.Errorf("parseIDs() mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseIDs("1,x"); err == nil {
		t.Error("parseIDs() accepted a non-number")
	}
}

func TestParseSpan(t *testing.T) {
	set := wordset.MustNew(sampleWords)
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "1:3", want: []int{1, 2, 3}},
		{in: "5:2", want: []int{2, 3, 4, 5}},
		{in: "4:4", want: []int{4}},
		{in: "1-3", wantErr: true},
		{in: "1:9", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSpan(tt.in, set)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSpan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got.Sorted()); diff != "" {
				t.Errorf("parseSpan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRect(t *testing.T) {
	got, err := parseRect("65,65,-60,-60")
	if err != nil {
		t.Fatalf("parseRect() error = %v", err)
	}
	want := wordset.Rect{Left: 5, Top: 5, Width: 60, Height: 60}
	if got != want {
		t.Errorf("parseRect() = %+v, want %+v", got, want)
	}
	for _, bad := range []string{"1,2,3", "a,1,2,3"} {
		if _, err := parseRect(bad); err == nil {
			t.Errorf("parseRect(%q) succeeded", bad)
		}
	}
}

func TestHighlight(t *testing.T) {
	mark := func(a ...interface{}) string { return "[" + a[0].(string) + "]" }
	got := highlight(sampleWords, wordset.NewIDSet(2, 3), mark)
	want := "Hello [World]\n[This] is test"
	if got != want {
		t.Errorf("highlight() = %q, want %q", got, want)
	}
}

func TestVirtualClock(t *testing.T) {
	c := newVirtualClock()
	var fired []string
	c.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })
	c.AfterFunc(5*time.Millisecond, func() {
		fired = append(fired, "b")
		c.AfterFunc(2*time.Millisecond, func() { fired = append(fired, "c") })
	})
	stopped := c.AfterFunc(1*time.Millisecond, func() { fired = append(fired, "stopped") })
	if !stopped.Stop() {
		t.Error("Stop() on a pending timer reported false")
	}
	late := c.AfterFunc(50*time.Millisecond, func() { fired = append(fired, "late") })

	c.Advance(20 * time.Millisecond)
	if diff := cmp.Diff([]string{"b", "c", "a"}, fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
	if got := c.Now().Sub(time.Unix(0, 0)); got != 20*time.Millisecond {
		t.Errorf("Now() = %v after advancing 20ms", got)
	}
	if !late.Stop() {
		t.Error("late timer fired early")
	}
}

func TestReadScript(t *testing.T) {
	path := writeTemp(t, "ok.yaml", []byte(`
steps:
  - down: {x: 1, y: 2, modifiers: {shift: true}, clicks: 2}
  - wait: 300ms
`))
	sc, err := readScript(path)
	if err != nil {
		t.Fatalf("readScript() error = %v", err)
	}
	if sc.Tick != 16*time.Millisecond {
		t.Errorf("default tick = %v", sc.Tick)
	}
	if d := sc.Steps[0].Down; d == nil || !d.Modifiers.Shift || d.ClickCount != 2 {
		t.Errorf("down step = %+v", sc.Steps[0].Down)
	}
	if sc.Steps[1].Wait != 300*time.Millisecond {
		t.Errorf("wait step = %v", sc.Steps[1].Wait)
	}

	for name, bad := range map[string]string{
		"two actions": "steps:\n  - {scroll: true, clear: true}",
		"no action":   "steps:\n  - {}",
		"bad zoom":    "steps:\n  - zoom: sideways",
	} {
		if _, err := readScript(writeTemp(t, "bad.yaml", []byte(bad))); err == nil {
			t.Errorf("%s: readScript() succeeded", name)
		}
	}
}

func replayYAML(t *testing.T, src string) (replayState, string) {
	t.Helper()
	sc, err := readScript(writeTemp(t, "script.yaml", []byte(src)))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	state := replay(&out, wordset.MustNew(sampleWords), 1000, 800, sc, session.DefaultConfig())
	return state, out.String()
}

func TestReplayClicks(t *testing.T) {
	state, out := replayYAML(t, `
steps:
  - down: {x: 30, y: 20, clicks: 1}
  - up: {x: 30, y: 20}
  - down: {x: 30, y: 50, clicks: 1, modifiers: {shift: true}}
  - up: {x: 30, y: 50}
  - hover: {x: 100, y: 50}
`)
	if diff := cmp.Diff([]int{1, 2, 3}, state.Selected); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if state.Text != "Hello World This" || state.Mode != "idle" || !state.Anchor.Visible {
		t.Errorf("final state = %+v", state)
	}
	for _, want := range []string{
		`selection [1] "Hello"`,
		`selection [1 2 3] "Hello World This"`,
		`hover 5 "test"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayMarqueeAndZoom(t *testing.T) {
	state, out := replayYAML(t, `
steps:
  - down: {x: 5, y: 5}
  - move: {x: 65, y: 65}
  - up: {x: 65, y: 65}
  - zoom: in
  - wait: 300ms
`)
	if diff := cmp.Diff([]int{1, 3, 4}, state.Selected); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if state.Zoom != 1.25 || !state.Anchor.Visible {
		t.Errorf("final state = %+v", state)
	}
	for _, want := range []string{
		"marquee 5,5 60x60",
		"marquee hidden",
		`selection [1 3 4] "Hello This is"`,
		"zoom 1.25",
		"anchor hidden",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.LastIndex(out, "anchor hidden") > strings.LastIndex(out, "anchor ") {
		t.Errorf("anchor not shown again after zoom settled:\n%s", out)
	}
}

func TestReplayEditAndClear(t *testing.T) {
	state, out := replayYAML(t, `
steps:
  - select: [4, 5]
  - edit: "is a test"
  - clear: true
`)
	if !strings.Contains(out, `text "is a test"`) {
		t.Errorf("output missing edited text:\n%s", out)
	}
	if len(state.Selected) != 0 || state.Anchor.Visible || state.Text != "" {
		t.Errorf("final state = %+v", state)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("ocrselect %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestTextCommand(t *testing.T) {
	got := execute(t, "text", "--words", wordsFile(t), "--range", "2:4")
	if got != "World This is\n" {
		t.Errorf("text output = %q", got)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	hocrPath := filepath.Join(dir, "sel.hocr")
	textPath := filepath.Join(dir, "sel.txt")
	execute(t, "export", "--words", wordsFile(t), "--line", "1", "--hocr", hocrPath, "--text", textPath)

	text, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "This is test\n" {
		t.Errorf("text export = %q", text)
	}

	hocrData, err := os.ReadFile(hocrPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ocr_page", "This", "test"} {
		if !bytes.Contains(hocrData, []byte(want)) {
			t.Errorf("hOCR export missing %q", want)
		}
	}
	if bytes.Contains(hocrData, []byte("Hello")) {
		t.Error("hOCR export contains an unselected word")
	}
}

const sampleHOCR = `<html><body>
 <div class='ocr_page' id='page_1' title='image "/scans/scan.png"; bbox 0 0 1000 800; ppageno 0'>
  <span class='ocr_line' id='line_1_1' title="bbox 10 10 120 30">
   <span class='ocrx_word' id='word_1_1' title='bbox 10 10 60 30; x_wconf 96'>Hello</span>
   <span class='ocrx_word' id='word_1_2' title='bbox 70 10 120 30; x_wconf 91'>World</span>
  </span>
 </div>
</body></html>`

func TestImportHOCRCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "words.json")
	execute(t, "import-hocr", "--hocr", writeTemp(t, "scan.hocr", []byte(sampleHOCR)), "--out", out)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	res, err := ocr.ReadResult(f)
	if err != nil {
		t.Fatalf("ReadResult() error = %v", err)
	}
	if res.Provider != "hocr" || res.Image != "scan.png" || res.Width != 1000 || res.Height != 800 {
		t.Errorf("result = %+v", res)
	}
	if got := res.Text(); got != "Hello World" {
		t.Errorf("result text = %q", got)
	}
}
