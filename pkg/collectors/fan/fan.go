// Package fan reads the PWM target of the board fan.
package fan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danpilch/oledmon/pkg/collectors"
)

// DefaultPath is the pwm-fan target file on Jetson boards.
const DefaultPath = "/sys/devices/pwm-fan/target_pwm"

// Collector reads the fan PWM duty value (0-255).
type Collector struct {
	path string
	open collectors.Opener
}

// New creates a collector for the PWM file at path. An empty path uses DefaultPath.
func New(path string) *Collector {
	return NewWithOpener(path, collectors.OpenFile)
}

// NewWithOpener creates a collector reading through open.
func NewWithOpener(path string, open collectors.Opener) *Collector {
	if path == "" {
		path = DefaultPath
	}
	return &Collector{path: path, open: open}
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return "fan"
}

// Read returns the PWM value. Raw holds the trimmed file content, which is
// what the dashboard shows.
func (c *Collector) Read(_ context.Context) (collectors.Reading, error) {
	data, err := collectors.ReadAll(c.open, c.path)
	if err != nil {
		return collectors.Reading{}, err
	}
	raw := strings.TrimSpace(string(data))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return collectors.Reading{}, fmt.Errorf("parse %s: %w", c.path, err)
	}
	return collectors.Reading{
		Value:  v,
		Raw:    raw,
		Unit:   "pwm",
		Source: c.path,
	}, nil
}
