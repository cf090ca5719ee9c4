package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danpilch/oledmon/pkg/config"
)

func (a *app) configCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out != "" {
				if err := config.SaveConfig(a.cfg, out); err != nil {
					return err
				}
				a.logger.WithField("path", out).Info("Configuration saved")
				return nil
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the configuration to this file instead")
	return cmd
}
