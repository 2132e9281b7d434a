package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrselect/pkg/ocr"
)

var (
	recognizeImage    string
	recognizeOut      string
	recognizeProvider string
	recognizeTimeout  time.Duration
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Recognize the words of an image",
	Long: `Run the configured OCR provider on an image and save the word boxes.
The image is checked first: size limit, filename and real image content.`,
	RunE: runRecognize,
}

func init() {
	RootCmd.AddCommand(recognizeCmd)
	recognizeCmd.Flags().StringVarP(&recognizeImage, "image", "i", "", "Image file (required)")
	recognizeCmd.Flags().StringVarP(&recognizeOut, "out", "o", "", "Words file to write (default stdout)")
	recognizeCmd.Flags().StringVar(&recognizeProvider, "provider", "", "Override the configured provider")
	recognizeCmd.Flags().DurationVar(&recognizeTimeout, "timeout", 2*time.Minute, "Give up after this long")
	recognizeCmd.MarkFlagRequired("image")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	if recognizeProvider != "" {
		cfg.Provider = recognizeProvider
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	provider, err := cfg.NewProvider()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(recognizeImage)
	if err != nil {
		return err
	}
	img, err := ocr.Validate(filepath.Base(recognizeImage), data, cfg.MaxImageSize)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"provider": provider.Name(),
		"image":    img.Name,
		"width":    img.Width,
		"height":   img.Height,
	}).Info("recognizing")

	ctx, cancel := context.WithTimeout(cmd.Context(), recognizeTimeout)
	defer cancel()
	res, err := provider.Recognize(ctx, img)
	if err != nil {
		return err
	}
	return writeWords(cmd, recognizeOut, res)
}
