package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "svodemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendNoop, cfg.GPU.Backend)
	assert.Empty(t, cfg.Scene)
	assert.Empty(t, cfg.Preview.Output)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
max_ray_length: 300
scene: rooms/attic.yaml
preview:
  output: slice.png
  axis: z
  size: 64
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(300), cfg.MaxRayLength)
	assert.Equal(t, "rooms/attic.yaml", cfg.Scene)
	assert.Equal(t, "slice.png", cfg.Preview.Output)
	assert.Equal(t, "z", cfg.Preview.Axis)
	assert.Equal(t, 64, cfg.Preview.Size)

	// Untouched keys keep their defaults.
	def := Default()
	assert.Equal(t, def.FieldOfView, cfg.FieldOfView)
	assert.Equal(t, def.Preview.Scale, cfg.Preview.Scale)
	assert.Equal(t, def.Preview.Min, cfg.Preview.Min)
	assert.True(t, cfg.GPU.Probe)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"malformed yaml", "preview: [", false},
		{"bad axis", "preview:\n  axis: w\n", true},
		{"zero ray length", "max_ray_length: 0\n", true},
		{"unknown backend", "gpu:\n  backend: vulkan\n", true},
		{"field of view too wide", "field_of_view: 4\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.Contains(t, err.Error(), "parsing config")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative fov", func(c *Config) { c.FieldOfView = -1 }},
		{"zero size", func(c *Config) { c.Preview.Size = 0 }},
		{"zero scale", func(c *Config) { c.Preview.Scale = 0 }},
		{"empty axis", func(c *Config) { c.Preview.Axis = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
