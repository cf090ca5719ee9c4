// Package monitor runs the dashboard: each cycle it refreshes the telemetry,
// redraws the whole screen and pushes it to the panel.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/oledmon/pkg/display"
	"github.com/danpilch/oledmon/pkg/display/text"
	"github.com/danpilch/oledmon/pkg/graph"
	"github.com/danpilch/oledmon/pkg/telemetry"
)

// Label positions (top-left corners) on the 128x64 layout.
var (
	hostnamePos  = image.Pt(0, 0)
	tempLabelPos = image.Pt(0, 18)
	tempValuePos = image.Pt(6, 28)
	fanLabelPos  = image.Pt(0, 39)
	fanValuePos  = image.Pt(6, 50)
	loadAvgPos   = image.Pt(100, 8)
)

const (
	tempLabel     = "temp:"
	fanLevelLabel = "f-lvl:"
)

// Options configures a Monitor.
type Options struct {
	Width, Height int
	Geometry      graph.Geometry
	// Interval is an extra delay between cycles.
	Interval time.Duration
	// MaxFailures stops Run after this many consecutive failed cycles. 0 never stops.
	MaxFailures int
}

// Monitor owns the framebuffer and draws the telemetry bundle onto it.
type Monitor struct {
	fb       *display.Framebuffer
	panel    display.Panel
	bundle   *telemetry.Bundle
	renderer *graph.Renderer
	opts     Options
	logger   *logrus.Logger
}

// New wires a monitor. It fails when the graph geometry does not match the
// bundle's history capacity.
func New(opts Options, panel display.Panel, bundle *telemetry.Bundle, logger *logrus.Logger) (*Monitor, error) {
	if panel == nil || bundle == nil {
		return nil, errors.New("monitor: panel and bundle are required")
	}
	renderer, err := graph.NewRenderer(opts.Geometry, bundle.CPULoad.Capacity())
	if err != nil {
		return nil, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = display.DefaultWidth, display.DefaultHeight
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Monitor{
		fb:       display.NewFramebuffer(opts.Width, opts.Height),
		panel:    panel,
		bundle:   bundle,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Framebuffer exposes the screen contents of the last cycle.
func (m *Monitor) Framebuffer() *display.Framebuffer {
	return m.fb
}

// Bundle returns the telemetry the monitor draws.
func (m *Monitor) Bundle() *telemetry.Bundle {
	return m.bundle
}

// Update runs one refresh cycle: clear, sample, draw, flush.
func (m *Monitor) Update(ctx context.Context) error {
	m.fb.Clear()

	m.logger.Debug("Updating information...")
	if err := m.bundle.Update(ctx); err != nil {
		return fmt.Errorf("update telemetry: %w", err)
	}
	m.logger.Debug("Information updated")

	m.drawTexts()
	if err := m.renderer.Render(m.fb, m.bundle.CPULoad); err != nil {
		return fmt.Errorf("render graph: %w", err)
	}
	if err := m.fb.Flush(m.panel); err != nil {
		return fmt.Errorf("flush panel: %w", err)
	}
	return nil
}

// Draw redraws the screen from the current bundle without sampling.
func (m *Monitor) Draw() error {
	m.fb.Clear()
	m.drawTexts()
	return m.renderer.Render(m.fb, m.bundle.CPULoad)
}

func (m *Monitor) drawTexts() {
	text.Draw(m.fb, m.bundle.Hostname, hostnamePos, text.Large)
	text.Draw(m.fb, tempLabel, tempLabelPos, text.Small)
	text.Draw(m.fb, m.bundle.Temperature, tempValuePos, text.Small)
	text.Draw(m.fb, fanLevelLabel, fanLabelPos, text.Small)
	text.Draw(m.fb, m.bundle.FanLevel, fanValuePos, text.Small)
	text.Draw(m.fb, m.bundle.LoadAvg, loadAvgPos, text.Small)
}

// Run initializes the panel and refreshes until ctx is done. A failed cycle
// is logged and the next one redraws from scratch. Run returns nil on
// cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.panel.Init(ctx); err != nil {
		return fmt.Errorf("init panel: %w", err)
	}
	m.logger.WithFields(logrus.Fields{
		"geometry": m.opts.Geometry.String(),
		"interval": m.opts.Interval,
	}).Info("Display initialized, entering loop...")

	failures := 0
	for {
		err := m.Update(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			failures++
			m.logger.WithFields(logrus.Fields{
				"error":    err,
				"failures": failures,
			}).Error("Refresh cycle failed")
			if m.opts.MaxFailures > 0 && failures >= m.opts.MaxFailures {
				return fmt.Errorf("giving up after %d consecutive failures: %w", failures, err)
			}
		} else {
			failures = 0
		}

		if m.opts.Interval > 0 {
			t := time.NewTimer(m.opts.Interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil
			case <-t.C:
			}
		}
	}
}
