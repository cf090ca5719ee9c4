package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danpilch/oledmon/pkg/debug"
)

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Refresh the panel until interrupted (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&a.opts.pprofAddr, "pprof", "", "serve net/http/pprof on this address")
	return cmd
}

func (a *app) run(ctx context.Context) error {
	if a.opts.pprofAddr != "" {
		_, stop, err := debug.StartPprofServer(a.opts.pprofAddr, a.logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	panel, err := a.openPanel()
	if err != nil {
		return err
	}
	defer func() {
		if err := panel.Close(); err != nil {
			a.logger.WithField("error", err).Warn("Closing panel failed")
		}
	}()

	mon, err := a.newMonitor(panel)
	if err != nil {
		return err
	}
	if err := mon.Run(ctx); err != nil {
		return err
	}
	a.logger.Info("Shutting down")
	return nil
}
