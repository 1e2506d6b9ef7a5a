// Package config loads the settings of the svodemo command.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all settings of a demo run.
type Config struct {
	// Camera
	FieldOfView  float32 `yaml:"field_of_view"` // radians
	MaxRayLength uint32  `yaml:"max_ray_length"`

	// Scene is a YAML scene description; empty selects the built-in room.
	Scene string `yaml:"scene"`

	Preview PreviewConfig `yaml:"preview"`
	GPU     GPUConfig     `yaml:"gpu"`
}

// PreviewConfig controls the slice image written after the scene is
// built.
type PreviewConfig struct {
	Output string     `yaml:"output"` // empty disables the preview
	Axis   string     `yaml:"axis"`   // x, y or z
	Level  float32    `yaml:"level"`  // plane position along Axis
	Min    [2]float32 `yaml:"min"`    // lower corner in the plane
	Size   int        `yaml:"size"`   // samples per side
	Scale  int        `yaml:"scale"`  // output pixels per sample
}

// GPUConfig selects the device used for the upload check.
type GPUConfig struct {
	Backend string `yaml:"backend"`
	Probe   bool   `yaml:"probe"`
}

// Supported GPU backends.
const (
	BackendNoop = "noop"
)

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		FieldOfView:  math.Pi / 3,
		MaxRayLength: 1024,
		Preview: PreviewConfig{
			Axis:  "y",
			Level: 101,
			Min:   [2]float32{90, 90},
			Size:  128,
			Scale: 4,
		},
		GPU: GPUConfig{
			Backend: BackendNoop,
			Probe:   true,
		},
	}
}

// Load loads config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.FieldOfView <= 0 || c.FieldOfView >= math.Pi {
		return fmt.Errorf("%w: field_of_view %v not in (0, pi)", ErrInvalid, c.FieldOfView)
	}
	if c.MaxRayLength == 0 {
		return fmt.Errorf("%w: max_ray_length must be positive", ErrInvalid)
	}
	switch c.Preview.Axis {
	case "x", "y", "z":
	default:
		return fmt.Errorf("%w: preview.axis %q", ErrInvalid, c.Preview.Axis)
	}
	if c.Preview.Size <= 0 {
		return fmt.Errorf("%w: preview.size %d", ErrInvalid, c.Preview.Size)
	}
	if c.Preview.Scale <= 0 {
		return fmt.Errorf("%w: preview.scale %d", ErrInvalid, c.Preview.Scale)
	}
	if c.GPU.Backend != BackendNoop {
		return fmt.Errorf("%w: gpu.backend %q", ErrInvalid, c.GPU.Backend)
	}
	return nil
}
