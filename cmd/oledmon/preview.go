package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/danpilch/oledmon/pkg/display"
	"github.com/danpilch/oledmon/pkg/preview"
)

func (a *app) previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Run the dashboard interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mon, err := a.newMonitor(display.Discard)
			if err != nil {
				return err
			}
			interval, err := a.cfg.Interval()
			if err != nil {
				return err
			}
			// Log lines would tear the alt screen.
			a.logger.SetOutput(io.Discard)
			return preview.Run(cmd.Context(), mon, interval)
		},
	}
}
