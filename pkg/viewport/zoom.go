package viewport

import "math"

// ZoomConfig bounds and steps the zoom level
type ZoomConfig struct {
	Min       float64 `yaml:"min"`        // Smallest zoom level
	Max       float64 `yaml:"max"`        // Largest zoom level
	Step      float64 `yaml:"step"`       // Increment for ZoomIn and ZoomOut
	WheelStep float64 `yaml:"wheel_step"` // Increment per wheel tick
}

// DefaultZoomConfig returns the standard zoom bounds
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		Min:       0.5,
		Max:       3,
		Step:      0.25,
		WheelStep: 0.1,
	}
}

// Baseline is the zoom level restored by Reset
const Baseline = 1.0

// Zoom holds the current zoom level. The zero value is not usable; use NewZoom.
type Zoom struct {
	cfg   ZoomConfig
	level float64
}

// NewZoom creates a zoom at the baseline level
func NewZoom(cfg ZoomConfig) *Zoom {
	return &Zoom{cfg: cfg, level: Baseline}
}

// Level returns the current zoom level
func (z *Zoom) Level() float64 { return z.level }

// Config returns the zoom bounds in use
func (z *Zoom) Config() ZoomConfig { return z.cfg }

// In steps the zoom up. It reports whether the level changed.
func (z *Zoom) In() bool {
	return z.set(math.Min(z.level+z.cfg.Step, z.cfg.Max))
}

// Out steps the zoom down. It reports whether the level changed.
func (z *Zoom) Out() bool {
	return z.set(math.Max(z.level-z.cfg.Step, z.cfg.Min))
}

// Reset restores the baseline level. It reports whether the level changed.
func (z *Zoom) Reset() bool {
	return z.set(Baseline)
}

// Wheel applies one wheel tick. A positive deltaY (scrolling down) zooms out.
// The level is rounded to two decimals so repeated ticks do not accumulate
// float error.
func (z *Zoom) Wheel(deltaY float64) bool {
	delta := z.cfg.WheelStep
	if deltaY > 0 {
		delta = -delta
	}
	next := clamp(z.level+delta, z.cfg.Min, z.cfg.Max)
	return z.set(math.Round(next*100) / 100)
}

func (z *Zoom) set(level float64) bool {
	if level == z.level {
		return false
	}
	z.level = level
	return true
}
