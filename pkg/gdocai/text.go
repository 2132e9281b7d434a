package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments.
// Indexes count unicode code points of the document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	segs := layout.GetTextAnchor().GetTextSegments()
	if len(segs) == 0 {
		return ""
	}
	runes := []rune(fullText)
	total := int64(len(runes))

	var b strings.Builder
	for _, seg := range segs {
		start := min(max(seg.GetStartIndex(), 0), total)
		end := min(seg.GetEndIndex(), total)
		if start > end {
			start = end
		}
		b.WriteString(string(runes[start:end]))
	}
	return b.String()
}
