// Package config loads the YAML configuration shared by the velocity
// extraction tooling.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/motionmatching/internal/core/observability/log"
	"github.com/zeusync/motionmatching/internal/core/posedata"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the runtime configuration of the velocity tooling.
type Config struct {
	Log      LogConfig      `json:"log" yaml:"log"`
	Sampling SamplingConfig `json:"sampling" yaml:"sampling"`
	Debug    DebugConfig    `json:"debug" yaml:"debug"`
	Workers  int            `json:"workers,omitempty" yaml:"workers,omitempty"`
}

type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// SamplingConfig sets the finite difference window used for joint velocities.
type SamplingConfig struct {
	Window    float64 `json:"window,omitempty" yaml:"window,omitempty"`
	Intervals int     `json:"intervals,omitempty" yaml:"intervals,omitempty"`
}

// DebugConfig controls the debug line output. Listen is empty when the
// websocket stream is disabled.
type DebugConfig struct {
	VelocityScale float64 `json:"velocity_scale,omitempty" yaml:"velocity_scale,omitempty"`
	Listen        string  `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Sampling: SamplingConfig{
			Window:    posedata.DefaultSampling.Window,
			Intervals: posedata.DefaultSampling.Intervals,
		},
		Debug: DebugConfig{
			VelocityScale: posedata.DebugVelocityScale,
		},
		Workers: 4,
	}
}

// Load decodes YAML from r on top of Default. Unset fields keep their defaults.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads and validates the YAML config at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Load(f)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Sampling.Window <= 0 {
		return fmt.Errorf("%w: sampling window must be positive, got %v", ErrInvalidConfig, c.Sampling.Window)
	}
	if c.Sampling.Intervals < 1 {
		return fmt.Errorf("%w: sampling intervals must be at least 1, got %d", ErrInvalidConfig, c.Sampling.Intervals)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Debug.VelocityScale < 0 {
		return fmt.Errorf("%w: debug velocity scale must not be negative", ErrInvalidConfig)
	}
	return nil
}

// PoseSampling converts the sampling section for the estimator.
func (c *Config) PoseSampling() posedata.Sampling {
	return posedata.Sampling{Window: c.Sampling.Window, Intervals: c.Sampling.Intervals}
}

func (c *Config) LogLevel() log.Level {
	return log.ParseLevel(c.Log.Level)
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Sampling.Window == 0 {
		c.Sampling.Window = d.Sampling.Window
	}
	if c.Sampling.Intervals == 0 {
		c.Sampling.Intervals = d.Sampling.Intervals
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.Debug.VelocityScale == 0 {
		c.Debug.VelocityScale = d.Debug.VelocityScale
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
