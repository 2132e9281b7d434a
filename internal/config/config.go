// Package config loads the ocrselect YAML configuration.
//
// A config file only needs the settings that differ from Default. Values
// from the environment (optionally read from .env files) override the file:
//
//	OCRSELECT_PROVIDER      tesseract | gdocai
//	OCRSELECT_LOG_LEVEL     logrus level name
//	OCRSELECT_LOG_FORMAT    text | json
//	GDOCAI_PROJECT_ID, GDOCAI_LOCATION, GDOCAI_PROCESSOR_ID
//	TESSDATA_PREFIX
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrselect/pkg/gdocai"
	"github.com/gardar/ocrselect/pkg/ocr"
	"github.com/gardar/ocrselect/pkg/pdfexport"
	"github.com/gardar/ocrselect/pkg/session"
	"github.com/gardar/ocrselect/pkg/tesseract"
)

// ErrUnknownProvider is returned for a provider name other than Providers
var ErrUnknownProvider = errors.New("unknown OCR provider")

// Providers lists the supported OCR provider names
var Providers = []string{"tesseract", "gdocai"}

// Config is the complete tool configuration
type Config struct {
	Provider     string           `yaml:"provider"`       // OCR provider used by recognize
	MaxImageSize int              `yaml:"max_image_size"` // Upload limit in bytes
	Session      session.Config   `yaml:"session"`
	GDocAI       gdocai.Config    `yaml:"gdocai"`
	Tesseract    tesseract.Config `yaml:"tesseract"`
	PDF          pdfexport.Config `yaml:"pdf"`
	Log          LogConfig        `yaml:"log"`
}

// LogConfig controls the CLI logger
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the defaults of every package
func Default() Config {
	return Config{
		Provider:     "tesseract",
		MaxImageSize: ocr.MaxImageSize,
		Session:      session.DefaultConfig(),
		Tesseract:    tesseract.DefaultConfig(),
		PDF:          pdfexport.DefaultConfig(),
		Log:          LogConfig{Level: "info", Format: "text"},
	}
}

// LoadEnv reads .env files into the process environment. Variables that are
// already set win. Without arguments it reads ".env".
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Provider = getEnvOrDefault("OCRSELECT_PROVIDER", c.Provider)
	c.Log.Level = getEnvOrDefault("OCRSELECT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("OCRSELECT_LOG_FORMAT", c.Log.Format)
	c.GDocAI.ProjectID = getEnvOrDefault("GDOCAI_PROJECT_ID", c.GDocAI.ProjectID)
	c.GDocAI.Location = getEnvOrDefault("GDOCAI_LOCATION", c.GDocAI.Location)
	c.GDocAI.ProcessorID = getEnvOrDefault("GDOCAI_PROCESSOR_ID", c.GDocAI.ProcessorID)
	c.Tesseract.TessdataPrefix = getEnvOrDefault("TESSDATA_PREFIX", c.Tesseract.TessdataPrefix)
}

func getEnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Validate checks value ranges. Document AI settings are only required when
// gdocai is the selected provider.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(Providers, c.Provider) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider))
	}
	if c.Provider == "gdocai" {
		if err := c.GDocAI.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("gdocai: %w", err))
		}
	}
	if c.MaxImageSize <= 0 {
		errs = append(errs, errors.New("max_image_size must be positive"))
	}

	s := c.Session
	if s.Selection.MinDragDistance < 0 {
		errs = append(errs, errors.New("session.selection.min_drag_distance must not be negative"))
	}
	if s.Selection.ThrottleInterval < 0 {
		errs = append(errs, errors.New("session.selection.throttle_interval must not be negative"))
	}
	if s.Zoom.Min <= 0 || s.Zoom.Min > s.Zoom.Max {
		errs = append(errs, fmt.Errorf("session.zoom: need 0 < min <= max, got %g..%g", s.Zoom.Min, s.Zoom.Max))
	}
	if s.Zoom.Step <= 0 || s.Zoom.WheelStep <= 0 {
		errs = append(errs, errors.New("session.zoom: step and wheel_step must be positive"))
	}
	if s.Anchor.MinWidth > s.Anchor.MaxWidth {
		errs = append(errs, errors.New("session.anchor: min_width exceeds max_width"))
	}
	if s.Anchor.InputMinWidth > s.Anchor.InputMaxWidth {
		errs = append(errs, errors.New("session.anchor: input_min_width exceeds input_max_width"))
	}
	if s.Timing.ZoomSettle < 0 || s.Timing.ScrollQuiet < 0 || s.Timing.RepositionDelay < 0 {
		errs = append(errs, errors.New("session.timing: delays must not be negative"))
	}

	if c.PDF.HighlightAlpha < 0 || c.PDF.HighlightAlpha > 1 {
		errs = append(errs, errors.New("pdf.highlight_alpha must be within 0..1"))
	}
	if c.PDF.Font.Size <= 0 {
		errs = append(errs, errors.New("pdf.font.size must be positive"))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// NewLogger builds a logger writing to w and hands it to every package config
func (c *Config) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	if c.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	c.Session.Logger = log
	c.GDocAI.Logger = log
	c.Tesseract.Logger = log
	c.PDF.Logger = log
	return log, nil
}

// NewProvider returns the configured OCR provider
func (c Config) NewProvider() (ocr.Provider, error) {
	switch c.Provider {
	case "tesseract":
		return tesseract.New(c.Tesseract), nil
	case "gdocai":
		return gdocai.New(c.GDocAI)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}

// Marshal renders the config as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
