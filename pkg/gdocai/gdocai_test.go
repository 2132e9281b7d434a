package gdocai

import (
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/wordset"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func normalized(x1, y1, x2, y2 float32) *documentaipb.BoundingPoly {
	return &documentaipb.BoundingPoly{NormalizedVertices: []*documentaipb.NormalizedVertex{
		{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
	}}
}

func token(start, end int64, poly *documentaipb.BoundingPoly, conf float32) *documentaipb.Document_Page_Token {
	return &documentaipb.Document_Page_Token{
		Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(start, end), BoundingPoly: poly, Confidence: conf},
	}
}

func line(start, end int64) *documentaipb.Document_Page_Line {
	return &documentaipb.Document_Page_Line{
		Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(start, end)},
	}
}

// "Hello World" and "This is" on two lines, plus a stamp outside any line
func sampleDocument() *documentaipb.Document {
	return &documentaipb.Document{
		Text: "Hello World\nThis is\nPAID \n",
		Pages: []*documentaipb.Document_Page{{
			PageNumber: 1,
			Dimension:  &documentaipb.Document_Page_Dimension{Width: 200, Height: 100, Unit: "pixels"},
			Lines:      []*documentaipb.Document_Page_Line{line(0, 12), line(12, 20)},
			Tokens: []*documentaipb.Document_Page_Token{
				token(0, 6, normalized(0.05, 0.1, 0.3, 0.3), 0.98),
				token(6, 12, normalized(0.35, 0.1, 0.6, 0.3), 0.5),
				token(12, 17, normalized(0.05, 0.4, 0.25, 0.6), 0),
				token(17, 20, normalized(0.3, 0.4, 0.4, 0.6), 0.9),
				token(25, 26, normalized(0.1, 0.1, 0.2, 0.2), 0.9), // whitespace only
				token(20, 25, &documentaipb.BoundingPoly{Vertices: []*documentaipb.Vertex{
					{X: 150, Y: 80}, {X: 190, Y: 80}, {X: 190, Y: 95}, {X: 150, Y: 95},
				}}, 0.7),
				token(0, 6, nil, 0.9), // no geometry
			},
		}},
	}
}

func conf(c float64) *float64 { return &c }

func TestPageFromProto(t *testing.T) {
	doc := sampleDocument()
	page := PageFromProto(doc.Pages[0], doc.Text)

	if page.Number != 1 || page.Width != 200 || page.Height != 100 {
		t.Errorf("page = %d %dx%d", page.Number, page.Width, page.Height)
	}
	want := []wordset.Word{
		{ID: 1, Text: "Hello", Left: 10, Top: 10, Width: 50, Height: 20, LineID: 1, Confidence: conf(0.98)},
		{ID: 2, Text: "World", Left: 70, Top: 10, Width: 50, Height: 20, LineID: 1, Confidence: conf(0.5)},
		{ID: 3, Text: "This", Left: 10, Top: 40, Width: 40, Height: 20, LineID: 2},
		{ID: 4, Text: "is", Left: 60, Top: 40, Width: 20, Height: 20, LineID: 2, Confidence: conf(0.9)},
		{ID: 5, Text: "PAID", Left: 150, Top: 80, Width: 40, Height: 15, LineID: 3, Confidence: conf(0.7)},
	}
	if diff := cmp.Diff(want, page.Words, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}

	set, err := wordset.New(page.Words)
	if err != nil {
		t.Fatal(err)
	}
	if got := wordset.AssembleText(set.Line(1)); got != "Hello World" {
		t.Errorf("line 1 = %q", got)
	}
}

func TestTextFromLayout(t *testing.T) {
	text := "Þórður á"
	tests := []struct {
		name   string
		layout *documentaipb.Document_Page_Layout
		want   string
	}{
		{"runes", &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 6)}, "Þórður"},
		{"clamped", &documentaipb.Document_Page_Layout{TextAnchor: anchor(7, 99)}, "á"},
		{"inverted", &documentaipb.Document_Page_Layout{TextAnchor: anchor(5, 2)}, ""},
		{"no anchor", &documentaipb.Document_Page_Layout{}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textFromLayout(tt.layout, text); got != tt.want {
				t.Errorf("textFromLayout() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordedResponse(t *testing.T) {
	data, err := ToJSON(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(data, `"normalizedVertices"`) {
		t.Errorf("ToJSON() did not use protojson names:\n%s", data)
	}

	var doc documentaipb.Document
	if err := FromJSON([]byte(data), &doc); err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	got := PageFromProto(doc.Pages[0], doc.Text)
	want := PageFromProto(sampleDocument().Pages[0], sampleDocument().Text)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("recorded response converts differently (-want +got):\n%s", diff)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{ProjectID: "p", Location: "eu", ProcessorID: "abc"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if got, want := ProcessorName(cfg), "projects/p/locations/eu/processors/abc"; got != want {
		t.Errorf("ProcessorName() = %q, want %q", got, want)
	}

	err := Config{Location: "eu"}.Validate()
	if err == nil || !strings.Contains(err.Error(), "project_id") || !strings.Contains(err.Error(), "processor_id") {
		t.Errorf("Validate() error = %v", err)
	}
	if _, err := New(Config{}); err == nil {
		t.Errorf("New() accepted an empty config")
	}
}

func TestResultEstimatesWithoutGeometry(t *testing.T) {
	p, err := New(Config{ProjectID: "p", Location: "eu", ProcessorID: "x"})
	if err != nil {
		t.Fatal(err)
	}
	img := ocr.Image{Name: "scan.png", Width: 800, Height: 1000}

	got, err := p.result(Page{Number: 1}, "Hello world\n\nagain\n", img)
	if err != nil {
		t.Fatalf("result() error = %v", err)
	}
	if got.Width != 800 || got.Height != 1000 || got.Provider != "gdocai" {
		t.Errorf("result() = %+v", got)
	}
	var texts []string
	for _, w := range got.Words {
		texts = append(texts, w.Text)
	}
	if diff := cmp.Diff([]string{"Hello", "world", "again"}, texts); diff != "" {
		t.Errorf("estimated words mismatch (-want +got):\n%s", diff)
	}
	if got.Words[2].LineID != 1 {
		t.Errorf("third word line = %d, want 1", got.Words[2].LineID)
	}

	if _, err := p.result(Page{}, "  \n", img); err != ocr.ErrNoWords {
		t.Errorf("result() of blank text error = %v, want ErrNoWords", err)
	}

	words := []wordset.Word{{ID: 1, Text: "kept", Width: 1, Height: 1}}
	got, err = p.result(Page{Width: 10, Height: 20, Words: words}, "ignored", img)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 10 || len(got.Words) != 1 || got.Words[0].Text != "kept" {
		t.Errorf("result() with geometry = %+v", got)
	}
}
