// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Transparency policies understood by the compositor.
const (
	TransparencyAlpha    = "alpha"
	TransparencyColorKey = "colorkey"
)

// MaxScale bounds the pixel scale factor.
const MaxScale = 64

// EngineConfig contains configuration for an engine run
type EngineConfig struct {
	Window     WindowConfig     `json:"window"`
	Simulation SimulationConfig `json:"simulation"`
	Render     RenderConfig     `json:"render"`
	Audio      AudioConfig      `json:"audio"`
	Runtime    RuntimeConfig    `json:"runtime"`
}

// WindowConfig describes the framebuffer and the window presenting it
type WindowConfig struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Scale  int    `json:"scale"`
}

// SimulationConfig contains loop pacing and movement configuration
type SimulationConfig struct {
	TickMillis      int     `json:"tickMillis"`
	ControllerSpeed float64 `json:"controllerSpeed"`
}

// RenderConfig contains compositing configuration
type RenderConfig struct {
	Transparency string `json:"transparency"`
	ColorKey     string `json:"colorKey"`
	Background   string `json:"background"`
}

// AudioConfig contains collision feedback configuration
type AudioConfig struct {
	Enabled        bool    `json:"enabled"`
	SampleRate     int     `json:"sampleRate"`
	Frequency      float64 `json:"frequency"`
	CooldownMillis int     `json:"cooldownMillis"`
}

// RuntimeConfig bounds the supervised background tasks of a run
type RuntimeConfig struct {
	MaxGoroutines         int   `json:"maxGoroutines"`
	MaxMemoryMB           int64 `json:"maxMemoryMB"`
	ShutdownTimeoutMillis int   `json:"shutdownTimeoutMillis"`
	CheckIntervalMillis   int   `json:"checkIntervalMillis"`
}

// ShutdownTimeout returns how long shutdown waits for supervised tasks.
func (r RuntimeConfig) ShutdownTimeout() time.Duration {
	return time.Duration(r.ShutdownTimeoutMillis) * time.Millisecond
}

// CheckInterval returns the period of the resource monitoring loop.
func (r RuntimeConfig) CheckInterval() time.Duration {
	return time.Duration(r.CheckIntervalMillis) * time.Millisecond
}

// TickDuration returns the target loop period.
func (c *EngineConfig) TickDuration() time.Duration {
	return time.Duration(c.Simulation.TickMillis) * time.Millisecond
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so a partial file only overrides what it names.
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *EngineConfig, path string) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the configuration of the reference demo:
// an 800x600 window, 4 ms ticks, alpha compositing.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Window: WindowConfig{
			Title:  "VoidEngine",
			Width:  800,
			Height: 600,
			Scale:  1,
		},
		Simulation: SimulationConfig{
			TickMillis:      4,
			ControllerSpeed: 0.5,
		},
		Render: RenderConfig{
			Transparency: TransparencyAlpha,
			ColorKey:     "#000000",
			Background:   "#000000",
		},
		Audio: AudioConfig{
			Enabled:        false,
			SampleRate:     44100,
			Frequency:      880,
			CooldownMillis: 150,
		},
		Runtime: RuntimeConfig{
			MaxGoroutines:         8,
			MaxMemoryMB:           512,
			ShutdownTimeoutMillis: 2000,
			CheckIntervalMillis:   5000,
		},
	}
}

// Validate checks value ranges and color syntax.
func (c *EngineConfig) Validate() error {
	var problems []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Scale < 1 || c.Window.Scale > MaxScale {
		problems = append(problems, fmt.Sprintf("scale %d must be between 1 and %d", c.Window.Scale, MaxScale))
	}
	if c.Simulation.TickMillis < 0 {
		problems = append(problems, fmt.Sprintf("tickMillis %d must not be negative", c.Simulation.TickMillis))
	}
	switch c.Render.Transparency {
	case TransparencyAlpha, TransparencyColorKey:
	default:
		problems = append(problems, fmt.Sprintf("unknown transparency mode %q", c.Render.Transparency))
	}
	if _, err := ParseColor(c.Render.ColorKey); err != nil {
		problems = append(problems, "colorKey: "+err.Error())
	}
	if _, err := ParseColor(c.Render.Background); err != nil {
		problems = append(problems, "background: "+err.Error())
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		problems = append(problems, fmt.Sprintf("sampleRate %d must be positive", c.Audio.SampleRate))
	}
	if c.Runtime.MaxGoroutines <= 0 || c.Runtime.MaxMemoryMB <= 0 {
		problems = append(problems, "runtime limits must be positive")
	}
	if c.Runtime.ShutdownTimeoutMillis <= 0 || c.Runtime.CheckIntervalMillis <= 0 {
		problems = append(problems, "runtime intervals must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB" into a packed ARGB value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("color %q: want #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}
