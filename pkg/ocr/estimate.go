package ocr

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// Layout constants of the estimator
const (
	estimateCharsPerLine = 80
	estimateLineHeight   = 25
	estimateLineSpacing  = 1.2
	estimateMargin       = 0.05 // Left and top margin as a fraction of the image size
	estimateConfidence   = 0.8
)

// EstimateWords lays out plain text as approximate word boxes, for providers
// that return text without positions. Blank lines are skipped; each remaining
// line gets its own line id starting at 0 and word ids start at 1.
func EstimateWords(text string, width, height int) []wordset.Word {
	charWidth := float64(width) / estimateCharsPerLine
	left := float64(width) * estimateMargin
	top := float64(height) * estimateMargin

	var words []wordset.Word
	lineID := 0
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		x := left
		y := top + float64(lineID)*estimateLineHeight*estimateLineSpacing
		for _, f := range fields {
			w := float64(utf8.RuneCountInString(f)) * charWidth
			conf := estimateConfidence
			words = append(words, wordset.Word{
				ID:         len(words) + 1,
				Text:       f,
				Left:       math.Round(x),
				Top:        math.Round(y),
				Width:      math.Round(w),
				Height:     estimateLineHeight,
				LineID:     lineID,
				Confidence: &conf,
			})
			x += w + charWidth/2
		}
		lineID++
	}
	return words
}

// EstimateSize guesses image dimensions for text whose image size is unknown
func EstimateSize(text string) (width, height int) {
	longest, lines := 0, 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines++
		longest = max(longest, utf8.RuneCountInString(line))
	}
	width = min(max(longest*12, 800), 1600)
	height = min(max(lines*30, 600), 2000)
	return width, height
}
