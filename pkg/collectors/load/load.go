// Package load reads the 5-minute load average.
package load

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danpilch/oledmon/pkg/collectors"
)

const procLoadavg = "/proc/loadavg"

// Collector reports the 5-minute load average. It asks the kernel through
// sysinfo(2) where available and falls back to /proc/loadavg.
type Collector struct {
	open    collectors.Opener
	sysinfo func() (float64, error)
}

// New creates a load average collector.
func New() *Collector {
	return &Collector{open: collectors.OpenFile, sysinfo: sysinfoLoad5}
}

// NewWithOpener creates a collector that only reads /proc/loadavg through open.
func NewWithOpener(open collectors.Opener) *Collector {
	return &Collector{open: open}
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return "load"
}

// Read returns the 5-minute load average.
func (c *Collector) Read(_ context.Context) (collectors.Reading, error) {
	if c.sysinfo != nil {
		if v, err := c.sysinfo(); err == nil {
			return collectors.Reading{
				Value:  v,
				Raw:    strconv.FormatFloat(v, 'f', 2, 64),
				Source: "sysinfo",
			}, nil
		}
	}

	data, err := collectors.ReadAll(c.open, procLoadavg)
	if err != nil {
		return collectors.Reading{}, err
	}
	v, raw, err := ParseLoadavg(data)
	if err != nil {
		return collectors.Reading{}, err
	}
	return collectors.Reading{
		Value:  v,
		Raw:    raw,
		Source: procLoadavg,
	}, nil
}

// ParseLoadavg returns the 5-minute field of /proc/loadavg content.
func ParseLoadavg(data []byte) (float64, string, error) {
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, "", fmt.Errorf("unexpected /proc/loadavg format")
	}
	load5, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse 5-minute load %q: %w", fields[1], err)
	}
	return load5, fields[1], nil
}
