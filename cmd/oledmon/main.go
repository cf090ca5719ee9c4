// Command oledmon draws host telemetry on a 128x64 monochrome panel.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/oledmon/pkg/collectors/cpu"
	"github.com/danpilch/oledmon/pkg/collectors/fan"
	"github.com/danpilch/oledmon/pkg/collectors/load"
	"github.com/danpilch/oledmon/pkg/collectors/thermal"
	"github.com/danpilch/oledmon/pkg/config"
	"github.com/danpilch/oledmon/pkg/display"
	"github.com/danpilch/oledmon/pkg/display/snapshot"
	"github.com/danpilch/oledmon/pkg/display/ssd1306"
	"github.com/danpilch/oledmon/pkg/display/term"
	"github.com/danpilch/oledmon/pkg/logging"
	"github.com/danpilch/oledmon/pkg/monitor"
	"github.com/danpilch/oledmon/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath string
	logLevel   string
	panel      string
	device     string
	address    int
	interval   time.Duration
	pprofAddr  string
}

type app struct {
	opts   options
	cfg    *config.Config
	logger *logrus.Logger

	stdout io.Writer
	stderr io.Writer

	// sources builds the metric collectors; tests replace it.
	sources func(cfg *config.Config) (telemetry.Sources, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:  stdout,
		stderr:  stderr,
		sources: defaultSources,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		a.log().WithField("error", err).Error("oledmon failed")
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oledmon",
		Short:         "Draw CPU, temperature and fan telemetry on a 128x64 OLED",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	f := root.PersistentFlags()
	f.StringVarP(&a.opts.configPath, "config", "c", "", "path to a YAML config file")
	f.StringVar(&a.opts.logLevel, "log-level", "", "log level (overrides config and "+logging.EnvVar+")")
	f.StringVar(&a.opts.panel, "panel", "", "output panel: ssd1306, terminal or png")
	f.StringVar(&a.opts.device, "device", "", "i2c-dev node of the ssd1306 panel")
	f.IntVar(&a.opts.address, "address", 0, "7-bit I2C address of the ssd1306 panel")
	f.DurationVar(&a.opts.interval, "interval", 0, "extra delay between refresh cycles")

	root.AddCommand(
		a.runCmd(),
		a.snapshotCmd(),
		a.probeCmd(),
		a.previewCmd(),
		a.configCmd(),
		a.benchCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides, validates and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("panel") {
		cfg.Display.Panel = a.opts.panel
	}
	if flags.Changed("device") {
		cfg.Display.Device = a.opts.device
	}
	if flags.Changed("address") {
		cfg.Display.Address = a.opts.address
	}
	if flags.Changed("interval") {
		cfg.Sampling.Interval = a.opts.interval.String()
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.opts.logLevel
	}

	logger, err := logging.New(logging.ResolveLevel(a.opts.logLevel, cfg.Log.Level), a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.logger.WithFields(logrus.Fields{
		"panel":    cfg.Display.Panel,
		"geometry": cfg.Geometry().String(),
		"capacity": cfg.Graph.Capacity,
	}).Debug("Configuration loaded")
	return nil
}

func (a *app) log() *logrus.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logrus.StandardLogger()
}

func defaultSources(cfg *config.Config) (telemetry.Sources, error) {
	pause, err := cfg.CPUPause()
	if err != nil {
		return telemetry.Sources{}, err
	}
	return telemetry.Sources{
		Temperature: thermal.New(cfg.Sensors.TemperaturePath),
		Fan:         fan.New(cfg.Sensors.FanPath),
		Load:        load.New(),
		Utilization: cpu.New(pause),
	}, nil
}

// openPanel builds the configured panel. The ssd1306 panel opens the bus here.
func (a *app) openPanel() (display.Panel, error) {
	d := a.cfg.Display
	switch d.Panel {
	case config.PanelSSD1306:
		bus, err := ssd1306.OpenBus(d.Device, d.Address)
		if err != nil {
			return nil, err
		}
		return ssd1306.New(bus, d.Width, d.Height, a.logger), nil
	case config.PanelTerminal:
		return term.New(a.stdout), nil
	case config.PanelPNG:
		return snapshot.New(d.Snapshot.Path, d.Snapshot.Scale, d.Snapshot.Invert), nil
	default:
		return nil, fmt.Errorf("unknown panel %q", d.Panel)
	}
}

// newMonitor wires the telemetry bundle and the monitor for panel.
func (a *app) newMonitor(panel display.Panel) (*monitor.Monitor, error) {
	sources, err := a.sources(a.cfg)
	if err != nil {
		return nil, err
	}
	bundle, err := telemetry.NewBundle(sources, a.cfg.Graph.Capacity, a.cfg.Sensors.Hostname, a.logger)
	if err != nil {
		return nil, err
	}
	interval, err := a.cfg.Interval()
	if err != nil {
		return nil, err
	}
	return monitor.New(monitor.Options{
		Width:       a.cfg.Display.Width,
		Height:      a.cfg.Display.Height,
		Geometry:    a.cfg.Geometry(),
		Interval:    interval,
		MaxFailures: a.cfg.Sampling.MaxFailures,
	}, panel, bundle, a.logger)
}
