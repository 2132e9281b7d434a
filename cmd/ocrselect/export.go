package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrselect/pkg/hocr"
	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/pdfexport"
	"github.com/gardar/ocrselect/pkg/selection"
)

var (
	exportFlags    selectionFlags
	exportWords    string
	exportImage    string
	exportPDF      string
	exportHOCR     string
	exportText     string
	exportLanguage string
	exportDebug    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a selection as PDF, hOCR or text",
	Long: `Export words and a selection.

--pdf writes the image with an invisible text layer of all words and the
selection as a highlight layer. --hocr and --text write only the selected
words, or every word when nothing is selected.`,
	RunE: runExport,
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportWords, "words", "w", "", "Words file (required)")
	exportCmd.Flags().StringVarP(&exportImage, "image", "i", "", "Page image, required for --pdf")
	exportCmd.Flags().StringVar(&exportPDF, "pdf", "", "Path to save the searchable PDF")
	exportCmd.Flags().StringVar(&exportHOCR, "hocr", "", "Path to save hOCR output")
	exportCmd.Flags().StringVar(&exportText, "text", "", "Path to save the selected text")
	exportCmd.Flags().StringVar(&exportLanguage, "lang", "", "Document language for hOCR output")
	exportCmd.Flags().BoolVar(&exportDebug, "debug", false, "Draw the PDF text layer visibly")
	exportCmd.MarkFlagRequired("words")
	exportCmd.MarkFlagsOneRequired("pdf", "hocr", "text")
	exportFlags.register(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	res, set, err := readWords(exportWords)
	if err != nil {
		return err
	}
	sel, err := exportFlags.resolve(cmd, set)
	if err != nil {
		return err
	}
	entry := log.WithFields(logrus.Fields{"words": set.Len(), "selected": sel.Len()})

	// Without a selection the text outputs carry the whole page
	words := sel.Words()
	if sel.IsEmpty() {
		words = set.Words()
	}

	if exportText != "" {
		text := sel.Text()
		if sel.IsEmpty() {
			text = res.Text()
		}
		if err := os.WriteFile(exportText, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
		entry.WithField("path", exportText).Info("text saved")
	}

	if exportHOCR != "" {
		page := hocr.Page{
			ID:        "page_1",
			ImageName: res.Image,
			Words:     words,
		}
		if res.Width > 0 && res.Height > 0 {
			page.BBox = hocr.NewBoundingBox(0, 0, float64(res.Width), float64(res.Height))
		}
		out, err := hocr.Generate(page, hocr.GenerateOptions{Title: res.Image, Language: exportLanguage})
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportHOCR, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write hOCR output: %w", err)
		}
		entry.WithField("path", exportHOCR).Info("hOCR saved")
	}

	if exportPDF != "" {
		if err := writePDF(res, sel, entry); err != nil {
			return err
		}
	}
	return nil
}

func writePDF(res ocr.Result, sel selection.Selection, entry *logrus.Entry) error {
	if exportImage == "" {
		return errors.New("--pdf needs --image")
	}
	data, err := os.ReadFile(exportImage)
	if err != nil {
		return err
	}
	img, err := ocr.Validate(filepath.Base(exportImage), data, cfg.MaxImageSize)
	if err != nil {
		return err
	}
	if res.Width > 0 && (img.Width != res.Width || img.Height != res.Height) {
		entry.WithFields(logrus.Fields{
			"image": fmt.Sprintf("%dx%d", img.Width, img.Height),
			"words": fmt.Sprintf("%dx%d", res.Width, res.Height),
		}).Warn("image size differs from the words file, boxes may be misplaced")
	}

	pdfCfg := cfg.PDF
	pdfCfg.Debug = pdfCfg.Debug || exportDebug

	f, err := os.Create(exportPDF)
	if err != nil {
		return err
	}
	page := pdfexport.Page{Image: img, Words: res.Words, Selected: sel.IDs()}
	if err := pdfexport.Export(f, []pdfexport.Page{page}, pdfCfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	// Confirm the layers made it into the file
	written, err := os.ReadFile(exportPDF)
	if err != nil {
		return err
	}
	check, err := pdfexport.CheckLayers(written, pdfCfg)
	if err != nil {
		return err
	}
	entry.WithFields(logrus.Fields{
		"path":      exportPDF,
		"layers":    check.Layers,
		"highlight": check.HasSelection,
	}).Info("PDF saved")
	return nil
}
