package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrselect/pkg/hocr"
	"github.com/gardar/ocrselect/pkg/ocr"
)

var (
	importHOCRPath string
	importHOCRPage int
	importHOCROut  string
)

var importHOCRCmd = &cobra.Command{
	Use:   "import-hocr",
	Short: "Convert an hOCR page to a words file",
	RunE:  runImportHOCR,
}

func init() {
	RootCmd.AddCommand(importHOCRCmd)
	importHOCRCmd.Flags().StringVar(&importHOCRPath, "hocr", "", "hOCR file (required)")
	importHOCRCmd.Flags().IntVar(&importHOCRPage, "page", 1, "Page number, 1 based")
	importHOCRCmd.Flags().StringVarP(&importHOCROut, "out", "o", "", "Words file to write (default stdout)")
	importHOCRCmd.MarkFlagRequired("hocr")
}

func runImportHOCR(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(importHOCRPath)
	if err != nil {
		return err
	}
	doc, err := hocr.Parse(data)
	if err != nil {
		return err
	}
	page, err := doc.Page(importHOCRPage)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"system": doc.System,
		"pages":  len(doc.Pages),
		"words":  len(page.Words),
	}).Info("hOCR parsed")

	image := page.ImageName
	if image != "" {
		image = filepath.Base(image)
	}
	return writeWords(cmd, importHOCROut, ocr.Result{
		Provider: "hocr",
		Image:    image,
		Width:    int(page.Width()),
		Height:   int(page.Height()),
		Words:    page.Words,
	})
}
