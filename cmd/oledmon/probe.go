package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/oledmon/pkg/collectors"
	"github.com/danpilch/oledmon/pkg/debug"
	"github.com/danpilch/oledmon/pkg/history"
	"github.com/danpilch/oledmon/pkg/output"
	"github.com/danpilch/oledmon/pkg/telemetry"
)

func (a *app) probeCmd() *cobra.Command {
	var samples int
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Read every metric source once and report values and timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.probe(cmd.Context(), samples)
		},
	}
	cmd.Flags().IntVarP(&samples, "samples", "n", 0, "also take N utilization samples and print a sparkline")
	return cmd
}

func (a *app) registry() (*collectors.Registry, error) {
	sources, err := a.sources(a.cfg)
	if err != nil {
		return nil, err
	}
	reg := collectors.NewRegistry()
	for _, c := range []collectors.Collector{sources.Utilization, sources.Load, sources.Temperature, sources.Fan} {
		if c != nil {
			reg.Register(c)
		}
	}
	return reg, nil
}

func (a *app) probe(ctx context.Context, samples int) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}

	var (
		results []debug.Sample
		timings []debug.CollectorTiming
	)
	for _, c := range reg.Collectors() {
		tc := debug.NewTimedCollector(c)
		r, err := tc.Read(ctx)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"collector": c.Name(),
				"error":     err,
			}).Warn("Collector failed")
		}
		results = append(results, debug.Sample{Collector: c.Name(), Reading: r, Err: err})
		timings = append(timings, tc.Timing)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	debug.DumpReadings(a.stdout, results)
	debug.TimingReport(a.stdout, timings)

	if samples <= 0 {
		return nil
	}
	util := reg.GetByName("cpu")
	if util == nil {
		return fmt.Errorf("no cpu collector registered")
	}
	w, err := history.New(samples)
	if err != nil {
		return err
	}
	for i := 0; i < samples; i++ {
		r, err := util.Read(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			a.logger.WithField("error", err).Warn("Utilization sample failed")
		}
		w.Push(telemetry.Clamp(r.Value))
	}
	fmt.Fprintf(a.stdout, "\n  cpu %s  latest %.0f%%\n", output.Utilization(w.Values()), w.Latest()*100)
	return nil
}
