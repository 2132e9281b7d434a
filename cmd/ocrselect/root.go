package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrselect/internal/config"
	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/wordset"
)

var (
	configPath string
	envFile    string
	logLevel   string

	cfg config.Config
	log = logrus.New()
)

// RootCmd is the ocrselect command
var RootCmd = &cobra.Command{
	Use:               "ocrselect",
	Short:             "Select, inspect and export OCR word boxes",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	RootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file to load before reading the config")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

// setup loads the environment file and config, then configures logging
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env") {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	l, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log = l
	log.WithFields(logrus.Fields{"command": cmd.Name(), "config": configPath}).Debug("configuration loaded")
	return nil
}

// readWords loads a words file
func readWords(path string) (ocr.Result, *wordset.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return ocr.Result{}, nil, err
	}
	defer f.Close()

	res, err := ocr.ReadResult(f)
	if err != nil {
		return res, nil, fmt.Errorf("%s: %w", path, err)
	}
	set, err := res.Set()
	if err != nil {
		return res, nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, set, nil
}

// writeWords saves a words file, or prints it when path is empty or "-"
func writeWords(cmd *cobra.Command, path string, res ocr.Result) error {
	if path == "" || path == "-" {
		return ocr.WriteResult(cmd.OutOrStdout(), res)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ocr.WriteResult(f, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": path, "words": len(res.Words)}).Info("words saved")
	return nil
}
