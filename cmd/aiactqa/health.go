package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		Long: `Check the health status of the answering backend.

Examples:
  # Check health
  aiactqa health

  # Check health on a different server
  aiactqa health --server http://localhost:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hs, err := a.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server Status: %s\n", hs.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "Server URL: %s\n", a.cfg.Server.URL)
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show backend information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := a.client.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("info request failed: %w", err)
			}
			out, err := yaml.Marshal(info)
			if err != nil {
				return fmt.Errorf("failed to format info: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
