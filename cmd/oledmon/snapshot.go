package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/oledmon/pkg/display/snapshot"
)

func (a *app) snapshotCmd() *cobra.Command {
	var (
		out    string
		scale  int
		invert bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Sample once and write the rendered screen to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.cfg.Display.Snapshot
			if cmd.Flags().Changed("out") {
				s.Path = out
			}
			if cmd.Flags().Changed("scale") {
				s.Scale = scale
			}
			if cmd.Flags().Changed("invert") {
				s.Invert = invert
			}

			panel := snapshot.New(s.Path, s.Scale, s.Invert)
			mon, err := a.newMonitor(panel)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := panel.Init(ctx); err != nil {
				return err
			}
			if err := mon.Update(ctx); err != nil {
				return err
			}
			a.logger.WithFields(logrus.Fields{
				"path":  s.Path,
				"scale": s.Scale,
			}).Info("Snapshot written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG output path (default from config)")
	cmd.Flags().IntVar(&scale, "scale", 0, "pixel scale factor")
	cmd.Flags().BoolVar(&invert, "invert", false, "draw dark pixels on a light background")
	return cmd
}
