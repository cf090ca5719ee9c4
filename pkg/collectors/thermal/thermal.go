// Package thermal reads the CPU temperature from the kernel thermal framework.
package thermal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danpilch/oledmon/pkg/collectors"
)

// DefaultZone is the thermal zone reporting the CPU on Jetson boards.
const DefaultZone = "/sys/class/thermal/thermal_zone0/temp"

// Collector reads a thermal zone in millidegrees Celsius.
type Collector struct {
	path string
	open collectors.Opener
}

// New creates a collector for the zone file at path. An empty path uses DefaultZone.
func New(path string) *Collector {
	return NewWithOpener(path, collectors.OpenFile)
}

// NewWithOpener creates a collector reading through open.
func NewWithOpener(path string, open collectors.Opener) *Collector {
	if path == "" {
		path = DefaultZone
	}
	return &Collector{path: path, open: open}
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return "temperature"
}

// Read returns the zone temperature in degrees Celsius.
func (c *Collector) Read(_ context.Context) (collectors.Reading, error) {
	data, err := collectors.ReadAll(c.open, c.path)
	if err != nil {
		return collectors.Reading{}, err
	}
	raw := strings.TrimSpace(string(data))
	milli, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return collectors.Reading{}, fmt.Errorf("parse %s: %w", c.path, err)
	}
	return collectors.Reading{
		Value:  float64(milli) / 1000,
		Raw:    raw,
		Unit:   "C",
		Source: c.path,
	}, nil
}
