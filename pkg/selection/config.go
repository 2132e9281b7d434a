package selection

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds engine tuning
type Config struct {
	MinDragDistance  float64            `yaml:"min_drag_distance"` // Marquee must exceed this many viewport pixels in both axes
	ThrottleInterval time.Duration      `yaml:"throttle_interval"` // Minimum gap between handled moves
	Logger           logrus.FieldLogger `yaml:"-"`                 // Debug logger (nil = discard)
}

// DefaultConfig returns the standard engine tuning
func DefaultConfig() Config {
	return Config{
		MinDragDistance:  5,
		ThrottleInterval: 8 * time.Millisecond, // ~120 events per second
	}
}

// getLogger returns the configured logger or one that discards everything
func getLogger(cfg Config) logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Option customizes an Engine
type Option func(*Engine)

// WithPointerSource sets where global drag listeners are installed
func WithPointerSource(src PointerSource) Option {
	return func(e *Engine) {
		e.pointers = src
	}
}

// WithFrameRequester batches marquee redraws to one per frame
func WithFrameRequester(fr FrameRequester) Option {
	return func(e *Engine) {
		e.frames = fr
	}
}

// WithListener sets the observer of selection and marquee changes
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithClock sets the time source used for move throttling
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
