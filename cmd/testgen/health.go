package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michael-freling/testcase-generator/internal/workflow"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the generation service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Backend.Timeout)
			defer cancel()

			status, err := client.Health(ctx)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is not reachable\n", workflow.Red("✗"), a.cfg.Backend.URL)
				return fmt.Errorf("health check failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is %s (%s)\n", workflow.Green("✓"), a.cfg.Backend.URL, status.Status, status.Service)
			return nil
		},
	}
}
