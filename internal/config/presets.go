package config

import "sort"

var presets = map[string]*Config{
	"indoor": {
		Frame:  FrameConfig{Width: 360, Height: 240},
		PID:    GainsConfig{Kp: 0.35, Kd: 0.45},
		Range:  RangeConfig{Min: 4200, Max: 6800, Speed: 20},
		Search: SearchConfig{Speed: 25, Delay: 0.6},
		Safety: SafetyConfig{MinBattery: 50, TakeoffHeight: 30},
		Faces: map[string]string{
			"person1": "images/reference/person1.jpg",
			"person2": "images/reference/person2.jpg",
		},
		FPS:  25,
		Seed: 42,
	},
	"outdoor": {
		Frame:  FrameConfig{Width: 360, Height: 240},
		PID:    GainsConfig{Kp: 0.45, Kd: 0.4},
		Range:  RangeConfig{Min: 2000, Max: 3600, Speed: 30},
		Search: SearchConfig{Speed: 20, Delay: 1.0},
		Safety: SafetyConfig{MinBattery: 60, TakeoffHeight: 50},
		Faces: map[string]string{
			"person1": "images/reference/person1.jpg",
			"person2": "images/reference/person2.jpg",
		},
		FPS:  25,
		Seed: 42,
	},
	"calm": {
		Frame:  FrameConfig{Width: 360, Height: 240},
		PID:    GainsConfig{Kp: 0.25, Kd: 0.45},
		Range:  RangeConfig{Min: 3000, Max: 5000, Speed: 15},
		Search: SearchConfig{Speed: 15, Delay: 1.2},
		Safety: SafetyConfig{MinBattery: 50, TakeoffHeight: 30},
		Faces: map[string]string{
			"person1": "images/reference/person1.jpg",
			"person2": "images/reference/person2.jpg",
		},
		FPS:  25,
		Seed: 42,
	},
	"snappy": {
		Frame:  FrameConfig{Width: 360, Height: 240},
		PID:    GainsConfig{Kp: 0.6, Kd: 0.5},
		Range:  RangeConfig{Min: 3000, Max: 5000, Speed: 30},
		Search: SearchConfig{Speed: 30, Delay: 0.5},
		Safety: SafetyConfig{MinBattery: 50, TakeoffHeight: 30},
		Faces: map[string]string{
			"person1": "images/reference/person1.jpg",
			"person2": "images/reference/person2.jpg",
		},
		FPS:  25,
		Seed: 42,
	},
}

// GetPreset returns a copy of a named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
