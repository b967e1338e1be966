package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tonytyler99/uavtrack/internal/control"
	"github.com/tonytyler99/uavtrack/internal/track"
)

const (
	DefaultFrameWidth    = 360
	DefaultFrameHeight   = 240
	DefaultKp            = 0.4
	DefaultKd            = 0.4
	DefaultRangeMin      = 3000
	DefaultRangeMax      = 5000
	DefaultRangeSpeed    = 25
	DefaultSearchSpeed   = 20
	DefaultSearchDelay   = 0.8
	DefaultMinBattery    = 50
	DefaultTakeoffHeight = 30
	DefaultFPS           = 25
)

type Config struct {
	Frame  FrameConfig       `yaml:"frame"`
	PID    GainsConfig       `yaml:"pid"`
	Range  RangeConfig       `yaml:"range"`
	Search SearchConfig      `yaml:"search"`
	Safety SafetyConfig      `yaml:"safety"`
	Faces  map[string]string `yaml:"faces"`
	FPS    int               `yaml:"fps"`
	Seed   int64             `yaml:"seed"`
}

type FrameConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type GainsConfig struct {
	Kp float64 `yaml:"kp"`
	Kd float64 `yaml:"kd"`
	Ki float64 `yaml:"ki"`
}

type RangeConfig struct {
	Min   int `yaml:"min"`
	Max   int `yaml:"max"`
	Speed int `yaml:"speed"`
}

type SearchConfig struct {
	Speed int     `yaml:"speed"`
	Delay float64 `yaml:"delay"` // seconds
}

type SafetyConfig struct {
	MinBattery    int `yaml:"min_battery"`
	TakeoffHeight int `yaml:"takeoff_height"`
}

func DefaultConfig() *Config {
	return &Config{
		Frame: FrameConfig{
			Width:  DefaultFrameWidth,
			Height: DefaultFrameHeight,
		},
		PID: GainsConfig{
			Kp: DefaultKp,
			Kd: DefaultKd,
		},
		Range: RangeConfig{
			Min:   DefaultRangeMin,
			Max:   DefaultRangeMax,
			Speed: DefaultRangeSpeed,
		},
		Search: SearchConfig{
			Speed: DefaultSearchSpeed,
			Delay: DefaultSearchDelay,
		},
		Safety: SafetyConfig{
			MinBattery:    DefaultMinBattery,
			TakeoffHeight: DefaultTakeoffHeight,
		},
		Faces: map[string]string{
			"person1": "images/reference/person1.jpg",
			"person2": "images/reference/person2.jpg",
		},
		FPS:  DefaultFPS,
		Seed: 42,
	}
}

// Load reads a config file over the defaults, so partial files only override
// what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects tuning that can never fly safely. Callers treat a failure
// as fatal at startup.
func (c *Config) Validate() error {
	switch {
	case c.Frame.Width <= 0 || c.Frame.Height <= 0:
		return fmt.Errorf("config: frame must be positive, got %dx%d", c.Frame.Width, c.Frame.Height)
	case c.PID.Kp < 0 || c.PID.Kd < 0 || c.PID.Ki < 0:
		return fmt.Errorf("config: gains must be >= 0, got kp=%g kd=%g ki=%g", c.PID.Kp, c.PID.Kd, c.PID.Ki)
	case c.Range.Min < 0 || c.Range.Min >= c.Range.Max:
		return fmt.Errorf("config: range band needs 0 <= min < max, got [%d, %d]", c.Range.Min, c.Range.Max)
	case c.Range.Speed < 0 || c.Range.Speed > control.MaxSpeed:
		return fmt.Errorf("config: range speed %d outside [0, %d]", c.Range.Speed, control.MaxSpeed)
	case c.Search.Speed <= 0 || c.Search.Speed > control.MaxSpeed:
		return fmt.Errorf("config: search speed %d outside (0, %d]", c.Search.Speed, control.MaxSpeed)
	case c.Search.Delay < 0:
		return fmt.Errorf("config: search delay %g must be >= 0", c.Search.Delay)
	case c.Safety.MinBattery < 0 || c.Safety.MinBattery > 100:
		return fmt.Errorf("config: min battery %d outside [0, 100]", c.Safety.MinBattery)
	case c.Safety.TakeoffHeight < 0:
		return fmt.Errorf("config: takeoff height %d must be >= 0", c.Safety.TakeoffHeight)
	case c.FPS <= 0:
		return fmt.Errorf("config: fps %d must be positive", c.FPS)
	}
	return nil
}

// Clone returns a deep copy, so presets and defaults stay pristine when the
// copy is layered over with flags.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Faces = make(map[string]string, len(c.Faces))
	for k, v := range c.Faces {
		cp.Faces[k] = v
	}
	return &cp
}

// SearchDelay returns the settle delay as a duration.
func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.Search.Delay * float64(time.Second))
}

// FrameInterval returns the pacing between frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// Tracker converts the tuning sections into a tracker config.
func (c *Config) Tracker() track.Config {
	return track.Config{
		FrameWidth:  c.Frame.Width,
		FrameHeight: c.Frame.Height,
		Gains:       control.YawPID{Kp: c.PID.Kp, Kd: c.PID.Kd, Ki: c.PID.Ki},
		Band:        control.RangeBand{Min: c.Range.Min, Max: c.Range.Max, Speed: c.Range.Speed},
		SearchSpeed: c.Search.Speed,
		SearchDelay: c.SearchDelay(),
	}
}
