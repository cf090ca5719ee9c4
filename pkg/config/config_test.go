package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/oledmon/pkg/graph"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, PanelSSD1306, cfg.Display.Panel)
	assert.Equal(t, "/dev/i2c-1", cfg.Display.Device)
	assert.Equal(t, 0x3C, cfg.Display.Address)
	assert.Equal(t, 128, cfg.Display.Width)
	assert.Equal(t, 64, cfg.Display.Height)

	assert.Equal(t, graph.DefaultGeometry, cfg.Geometry())
	assert.Equal(t, 17, cfg.Graph.Capacity)

	pause, err := cfg.CPUPause()
	require.NoError(t, err)
	assert.Equal(t, time.Second, pause)
	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Zero(t, interval)
}

func TestLoadConfig_EmptyPathAndMissingFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
display:
  panel: terminal
graph:
  step: 10
  top_left: {x: 0, y: 0}
  bottom_right: {x: 40, y: 40}
  capacity: 4
sampling:
  interval: 2s
sensors:
  hostname: bench
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, PanelTerminal, cfg.Display.Panel)
	assert.Equal(t, "/dev/i2c-1", cfg.Display.Device, "unset fields keep defaults")
	assert.Equal(t, image.Pt(40, 40), cfg.Geometry().BottomRight)
	assert.Equal(t, 4, cfg.Graph.Capacity)
	assert.Equal(t, "bench", cfg.Sensors.Hostname)
	assert.Equal(t, "debug", cfg.Log.Level)

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, interval)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [oops"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errIs  error
	}{
		{"unknown panel", func(c *Config) { c.Display.Panel = "lcd" }, nil},
		{"missing device", func(c *Config) { c.Display.Device = "" }, nil},
		{"bad address", func(c *Config) { c.Display.Address = 0x80 }, nil},
		{"png without path", func(c *Config) { c.Display.Panel = PanelPNG; c.Display.Snapshot.Path = "" }, nil},
		{"zero size", func(c *Config) { c.Display.Width = 0 }, nil},
		{"zero step", func(c *Config) { c.Graph.Step = 0 }, graph.ErrInvalidGeometry},
		{"graph off screen", func(c *Config) { c.Graph.BottomRight.X = 128 }, nil},
		{"graph above screen", func(c *Config) { c.Graph.TopLeft.Y = -1 }, nil},
		{"capacity mismatch", func(c *Config) { c.Graph.Capacity = 16 }, graph.ErrCapacityMismatch},
		{"bad interval", func(c *Config) { c.Sampling.Interval = "soon" }, nil},
		{"negative pause", func(c *Config) { c.Sampling.CPUPause = "-1s" }, nil},
		{"negative max failures", func(c *Config) { c.Sampling.MaxFailures = -1 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestValidate_NegativeTopLeft(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graph.TopLeft = PointConfig{X: 42, Y: -3}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-left")
}

func TestValidate_TerminalSkipsI2C(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.Panel = PanelTerminal
	cfg.Display.Device = ""
	cfg.Display.Address = 0
	assert.NoError(t, cfg.Validate())
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Sensors.Hostname = "orin"

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
