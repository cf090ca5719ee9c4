// Package telemetry aggregates the readings shown on the dashboard and owns
// the utilization history.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/oledmon/pkg/collectors"
	"github.com/danpilch/oledmon/pkg/history"
)

// Sources are the collectors feeding a Bundle. Utilization is required; the
// others may be nil, in which case their field keeps its placeholder.
type Sources struct {
	Temperature collectors.Collector
	Fan         collectors.Collector
	Load        collectors.Collector
	Utilization collectors.Collector
}

// Placeholder strings shown before the first successful reading.
const (
	PlaceholderTemperature = "0.0C"
	PlaceholderFan         = "0"
	PlaceholderLoad        = "0.00"
)

// Bundle holds the latest display strings and the utilization window.
// It is not safe for concurrent use; one control loop owns it.
type Bundle struct {
	Hostname    string
	Temperature string
	FanLevel    string
	LoadAvg     string
	CPULoad     *history.Window

	sources Sources
	logger  *logrus.Logger
}

// NewBundle creates a bundle with a zero-filled window of the given capacity.
// An empty hostname is filled from the OS.
func NewBundle(sources Sources, capacity int, hostname string, logger *logrus.Logger) (*Bundle, error) {
	if sources.Utilization == nil {
		return nil, errors.New("telemetry: utilization source is required")
	}
	window, err := history.New(capacity)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	if hostname == "" {
		hostname, err = os.Hostname()
		if err != nil {
			logger.WithError(err).Warn("Cannot read hostname")
			hostname = "unknown"
		}
	}
	return &Bundle{
		Hostname:    hostname,
		Temperature: PlaceholderTemperature,
		FanLevel:    PlaceholderFan,
		LoadAvg:     PlaceholderLoad,
		CPULoad:     window,
		sources:     sources,
		logger:      logger,
	}, nil
}

// Update refreshes every reading and pushes exactly one utilization sample.
// A failed reading keeps its previous string; a failed utilization sample
// pushes 0. Only context cancellation aborts the update, before the push.
func (b *Bundle) Update(ctx context.Context) error {
	if r, ok := b.read(ctx, b.sources.Temperature); ok {
		b.Temperature = fmt.Sprintf("%.1fC", r.Value)
	}
	if r, ok := b.read(ctx, b.sources.Fan); ok {
		b.FanLevel = r.Raw
	}
	if r, ok := b.read(ctx, b.sources.Load); ok {
		b.LoadAvg = fmt.Sprintf("%.2f", r.Value)
	}

	var util float64
	r, err := b.sources.Utilization.Read(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		b.logger.WithFields(logrus.Fields{
			"collector": b.sources.Utilization.Name(),
			"error":     err,
		}).Warn("Utilization sample failed, recording idle")
	default:
		util = Clamp(r.Value)
	}

	b.CPULoad.Push(util)
	b.logger.WithField("utilization", util).Debug("Current CPU load")
	return nil
}

func (b *Bundle) read(ctx context.Context, c collectors.Collector) (collectors.Reading, bool) {
	if c == nil {
		return collectors.Reading{}, false
	}
	r, err := c.Read(ctx)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"collector": c.Name(),
			"error":     err,
		}).Warn("Collector failed")
		return collectors.Reading{}, false
	}
	return r, true
}

// Clamp limits a utilization ratio to [0, 1].
func Clamp(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
