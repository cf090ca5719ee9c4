package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/danpilch/oledmon/pkg/benchmark"
	"github.com/danpilch/oledmon/pkg/display"
	"github.com/danpilch/oledmon/pkg/display/snapshot"
)

func (a *app) benchCmd() *cobra.Command {
	opts := benchmark.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure collector, render and encode latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Time the counter parsing, not the sampling pause.
			a.cfg.Sampling.CPUPause = "1ms"
			tasks, err := a.benchTasks()
			if err != nil {
				return err
			}
			before := benchmark.MeasureOverhead()
			results, err := benchmark.Run(cmd.Context(), tasks, opts)
			if err != nil {
				return err
			}
			benchmark.RenderResults(a.stdout, results, benchmark.MeasureOverhead().Since(before))
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "timed iterations per task")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", opts.Warmup, "untimed iterations per task")
	return cmd
}

// collectorUnits labels the value column of each collector's row.
var collectorUnits = map[string]string{
	"cpu":         "ratio",
	"load":        "load",
	"temperature": "C",
	"fan":         "pwm",
}

func (a *app) benchTasks() ([]benchmark.Task, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	mon, err := a.newMonitor(display.Discard)
	if err != nil {
		return nil, err
	}

	var tasks []benchmark.Task
	for _, c := range reg.Collectors() {
		tasks = append(tasks, benchmark.Task{Name: c.Name(), Unit: collectorUnits[c.Name()], Fn: func(ctx context.Context) (float64, error) {
			r, err := c.Read(ctx)
			return r.Value, err
		}})
	}
	tasks = append(tasks,
		benchmark.Task{Name: "render", Unit: "px lit", Fn: func(context.Context) (float64, error) {
			err := mon.Draw()
			return float64(len(mon.Framebuffer().Lit())), err
		}},
		benchmark.Task{Name: "encode-png", Fn: func(context.Context) (float64, error) {
			fb := mon.Framebuffer()
			err := snapshot.Encode(io.Discard, fb, a.cfg.Display.Snapshot.Scale, false)
			return 0, err
		}},
	)
	return tasks, nil
}
