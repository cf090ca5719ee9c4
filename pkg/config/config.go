// Package config provides configuration parsing for oledmon.
package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danpilch/oledmon/pkg/collectors/cpu"
	"github.com/danpilch/oledmon/pkg/collectors/fan"
	"github.com/danpilch/oledmon/pkg/collectors/thermal"
	"github.com/danpilch/oledmon/pkg/display"
	"github.com/danpilch/oledmon/pkg/display/ssd1306"
	"github.com/danpilch/oledmon/pkg/graph"
)

// Panel kinds.
const (
	PanelSSD1306  = "ssd1306"
	PanelTerminal = "terminal"
	PanelPNG      = "png"
)

// Config represents the oledmon configuration.
type Config struct {
	// Display holds panel settings.
	Display DisplayConfig `yaml:"display"`

	// Graph holds the utilization chart layout.
	Graph GraphConfig `yaml:"graph"`

	// Sampling holds loop timing settings.
	Sampling SamplingConfig `yaml:"sampling"`

	// Sensors holds metric source locations.
	Sensors SensorsConfig `yaml:"sensors"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log"`
}

// DisplayConfig holds panel settings.
type DisplayConfig struct {
	// Panel is the output: "ssd1306", "terminal" or "png".
	Panel string `yaml:"panel"`
	// Device is the i2c-dev node for the ssd1306 panel.
	Device string `yaml:"device"`
	// Address is the 7-bit I2C address of the ssd1306 panel.
	Address int `yaml:"address"`
	// Width and Height are the panel size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Snapshot configures the png panel.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig configures PNG output.
type SnapshotConfig struct {
	Path   string `yaml:"path"`
	Scale  int    `yaml:"scale"`
	Invert bool   `yaml:"invert"`
}

// PointConfig is a pixel coordinate.
type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// GraphConfig holds the chart geometry and history length.
type GraphConfig struct {
	Step        int         `yaml:"step"`
	TopLeft     PointConfig `yaml:"top_left"`
	BottomRight PointConfig `yaml:"bottom_right"`
	// Capacity is the number of samples kept; it must equal the number of
	// points the geometry plots.
	Capacity int `yaml:"capacity"`
}

// SamplingConfig holds loop timing settings.
type SamplingConfig struct {
	// Interval is a duration string added between refresh cycles. "0s" runs
	// cycles back to back, paced only by CPUPause.
	Interval string `yaml:"interval"`
	// CPUPause is the duration string between the two CPU counter readings.
	CPUPause string `yaml:"cpu_pause"`
	// MaxFailures stops the loop after this many consecutive failed cycles;
	// 0 keeps going forever.
	MaxFailures int `yaml:"max_failures"`
}

// SensorsConfig holds metric source locations.
type SensorsConfig struct {
	TemperaturePath string `yaml:"temperature_path"`
	FanPath         string `yaml:"fan_path"`
	// Hostname overrides the OS hostname shown in the header.
	Hostname string `yaml:"hostname"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name. Empty defers to the OLEDMON_LOG
	// environment variable.
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config populated with the reference 128x64 layout.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Panel:   PanelSSD1306,
			Device:  ssd1306.DefaultDevice,
			Address: ssd1306.DefaultAddress,
			Width:   display.DefaultWidth,
			Height:  display.DefaultHeight,
			Snapshot: SnapshotConfig{
				Path:  "oledmon.png",
				Scale: 4,
			},
		},
		Graph: GraphConfig{
			Step:        graph.DefaultGeometry.Step,
			TopLeft:     PointConfig{X: graph.DefaultGeometry.TopLeft.X, Y: graph.DefaultGeometry.TopLeft.Y},
			BottomRight: PointConfig{X: graph.DefaultGeometry.BottomRight.X, Y: graph.DefaultGeometry.BottomRight.Y},
			Capacity:    graph.DefaultCapacity,
		},
		Sampling: SamplingConfig{
			Interval:    "0s",
			CPUPause:    cpu.DefaultPause.String(),
			MaxFailures: 0,
		},
		Sensors: SensorsConfig{
			TemperaturePath: thermal.DefaultZone,
			FanPath:         fan.DefaultPath,
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return config, nil
}

// Geometry returns the chart geometry.
func (c *Config) Geometry() graph.Geometry {
	return graph.Geometry{
		Step:        c.Graph.Step,
		TopLeft:     image.Pt(c.Graph.TopLeft.X, c.Graph.TopLeft.Y),
		BottomRight: image.Pt(c.Graph.BottomRight.X, c.Graph.BottomRight.Y),
	}
}

// Interval returns the parsed refresh interval.
func (c *Config) Interval() (time.Duration, error) {
	return parseDuration("sampling.interval", c.Sampling.Interval)
}

// CPUPause returns the parsed CPU sampling pause.
func (c *Config) CPUPause() (time.Duration, error) {
	return parseDuration("sampling.cpu_pause", c.Sampling.CPUPause)
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %s", field, s)
	}
	return d, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	// Display validation
	switch c.Display.Panel {
	case PanelSSD1306:
		if c.Display.Device == "" {
			return fmt.Errorf("display.device is required for the ssd1306 panel")
		}
		if c.Display.Address <= 0 || c.Display.Address > 0x7f {
			return fmt.Errorf("display.address must be a 7-bit I2C address, got %d", c.Display.Address)
		}
	case PanelPNG:
		if c.Display.Snapshot.Path == "" {
			return fmt.Errorf("display.snapshot.path is required for the png panel")
		}
	case PanelTerminal:
	default:
		return fmt.Errorf("display.panel must be 'ssd1306', 'terminal' or 'png', got %q", c.Display.Panel)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}

	// Graph validation
	g := c.Geometry()
	if err := g.Validate(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	if g.TopLeft.X < 0 || g.TopLeft.Y < 0 {
		return fmt.Errorf("graph: top-left %v outside %dx%d display", g.TopLeft, c.Display.Width, c.Display.Height)
	}
	if g.BottomRight.X >= c.Display.Width || g.BottomRight.Y >= c.Display.Height {
		return fmt.Errorf("graph: bottom-right %v outside %dx%d display", g.BottomRight, c.Display.Width, c.Display.Height)
	}
	if err := g.CheckCapacity(c.Graph.Capacity); err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	// Sampling validation
	if _, err := c.Interval(); err != nil {
		return err
	}
	if _, err := c.CPUPause(); err != nil {
		return err
	}
	if c.Sampling.MaxFailures < 0 {
		return fmt.Errorf("sampling.max_failures must be non-negative, got %d", c.Sampling.MaxFailures)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
