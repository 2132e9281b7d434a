// Package hocr reads and writes hOCR, the HTML based format many OCR engines
// (tesseract, ocrmypdf, kraken) emit for recognized text with positions.
//
// Parsing flattens the hOCR hierarchy into pages of word boxes ready for
// selection: every ocr_line (or other line-level element) gets a line id,
// every ocrx_word becomes a wordset.Word in document order.
//
// Main Functions:
//
// - Parse: reads an hOCR document into pages of words
// - ParseTitle / ParseBoundingBox: decode hOCR title properties
// - Generate: renders a page of words back into hOCR
// - Text: plain text of a page, one line per hOCR line
package hocr
