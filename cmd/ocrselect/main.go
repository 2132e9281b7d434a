// ocrselect is a command-line tool for working with OCR word boxes: it
// recognizes words in images, imports hOCR, selects words the way the
// interactive overlay does and exports selections as text, hOCR or
// searchable PDF.
//
// Configuration:
//
// Settings are read from an optional YAML file (-c) over built-in defaults.
// Environment variables, optionally loaded from a .env file, override the
// file:
//
//	provider: gdocai
//	gdocai:
//	  project_id: "your-gcp-project-id"
//	  location: "eu"
//	  processor_id: "your-processor-id"
//	session:
//	  timing:
//	    zoom_settle: 300ms
//
// Usage:
//
//	ocrselect recognize --image scan.png --out words.json
//	ocrselect import-hocr --hocr scan.hocr --page 1 --out words.json
//	ocrselect text --words words.json --range 3:9
//	ocrselect replay --words words.json --script drag.yaml
//	ocrselect export --words words.json --image scan.png --ids 1,2,3 --pdf out.pdf
//	ocrselect config
//
// Authentication:
//
// The gdocai provider uses credentials_file from the config or the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
package main

import (
	"os"
)

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
