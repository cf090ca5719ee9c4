// Package cpu samples instantaneous CPU utilization from /proc/stat.
package cpu

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danpilch/oledmon/pkg/collectors"
)

const (
	// DefaultPause is the time between the two /proc/stat readings.
	DefaultPause = time.Second

	procStat = "/proc/stat"
)

// CPUStats holds raw CPU statistics from /proc/stat.
type CPUStats struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Total returns the total CPU time.
func (s CPUStats) Total() uint64 {
	return s.User + s.Nice + s.System + s.Idle + s.IOWait + s.IRQ + s.SoftIRQ + s.Steal
}

// Collector reports the fraction of CPU time spent not idle between two
// readings taken Pause apart.
type Collector struct {
	Pause time.Duration
	open  collectors.Opener
}

// New creates a CPU collector. A non-positive pause uses DefaultPause.
func New(pause time.Duration) *Collector {
	return NewWithOpener(pause, collectors.OpenFile)
}

// NewWithOpener creates a CPU collector reading /proc/stat through open.
func NewWithOpener(pause time.Duration, open collectors.Opener) *Collector {
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Collector{Pause: pause, open: open}
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return "cpu"
}

// Read samples utilization as 1 - idle/total over the pause. The result is
// a ratio in [0, 1].
func (c *Collector) Read(ctx context.Context) (collectors.Reading, error) {
	before, err := c.readStats()
	if err != nil {
		return collectors.Reading{}, err
	}

	t := time.NewTimer(c.Pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return collectors.Reading{}, ctx.Err()
	case <-t.C:
	}

	after, err := c.readStats()
	if err != nil {
		return collectors.Reading{}, err
	}

	util := Utilization(before, after)
	return collectors.Reading{
		Value:  util,
		Raw:    fmt.Sprintf("idle %d/%d", after.Idle-before.Idle, after.Total()-before.Total()),
		Unit:   "ratio",
		Source: procStat,
	}, nil
}

// Utilization returns the busy fraction between two snapshots. It returns 0
// when no time elapsed or the counters went backwards.
func Utilization(before, after CPUStats) float64 {
	if after.Total() <= before.Total() || after.Idle < before.Idle {
		return 0
	}
	total := float64(after.Total() - before.Total())
	idle := float64(after.Idle - before.Idle)
	return 1 - idle/total
}

func (c *Collector) readStats() (CPUStats, error) {
	data, err := collectors.ReadAll(c.open, procStat)
	if err != nil {
		return CPUStats{}, err
	}
	return ParseStat(data)
}

// ParseStat extracts the aggregate "cpu" line from /proc/stat content.
func ParseStat(data []byte) (CPUStats, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "cpu ") {
			fields := strings.Fields(line)
			if len(fields) < 8 {
				return CPUStats{}, fmt.Errorf("unexpected /proc/stat format")
			}

			stats := CPUStats{}
			stats.User, _ = strconv.ParseUint(fields[1], 10, 64)
			stats.Nice, _ = strconv.ParseUint(fields[2], 10, 64)
			stats.System, _ = strconv.ParseUint(fields[3], 10, 64)
			stats.Idle, _ = strconv.ParseUint(fields[4], 10, 64)
			stats.IOWait, _ = strconv.ParseUint(fields[5], 10, 64)
			stats.IRQ, _ = strconv.ParseUint(fields[6], 10, 64)
			stats.SoftIRQ, _ = strconv.ParseUint(fields[7], 10, 64)
			if len(fields) > 8 {
				stats.Steal, _ = strconv.ParseUint(fields[8], 10, 64)
			}
			return stats, nil
		}
	}

	return CPUStats{}, fmt.Errorf("cpu line not found in /proc/stat")
}
