package pdfexport

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(((?:\\.|[^\\)])+)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(((?:\\.|[^\\)])+)\)`),
	regexp.MustCompile(`/Name\s*\(((?:\\.|[^\\)])+)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// DetectLayers returns the names of the optional content groups in raw PDF
// data, in order of appearance. Only uncompressed object dictionaries are
// inspected, which is where fpdf and most writers put them.
func DetectLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, errors.New("empty PDF data")
	}

	content := string(pdfData)
	var layers []string
	seen := make(map[string]bool)
	for _, re := range ocgPatterns {
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			name := decodeName(unescapePDFString(match[1]))
			if !seen[name] {
				seen[name] = true
				layers = append(layers, name)
			}
		}
	}
	return layers, nil
}

// LayerCheckResult contains the results of checking for layers
type LayerCheckResult struct {
	Layers       []string // All detected layers
	HasText      bool     // The text layer exists
	HasSelection bool     // The selection highlight layer exists
	Warnings     []string // Layers that look like OCR from another tool
}

// CheckLayers looks for the layers Export writes under the names in cfg
func CheckLayers(pdfData []byte, cfg Config) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := DetectLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	for _, layer := range layers {
		switch {
		case layer == cfg.LayerName:
			result.HasText = true
		case layer == cfg.SelectionLayerName:
			result.HasSelection = true
		case strings.Contains(strings.ToLower(layer), "ocr"):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("existing layer might contain OCR: %s", layer))
		}
	}
	return result, nil
}

func unescapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\(", "(")
	s = strings.ReplaceAll(s, "\\)", ")")
	s = strings.ReplaceAll(s, "\\r", "\r")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

// decodeName decodes UTF-16BE names that start with a byte order mark
func decodeName(s string) string {
	if !strings.HasPrefix(s, "\xfe\xff") {
		return s
	}
	decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}
