package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/michael-freling/testcase-generator/internal/backend"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference generation service",
		Long: `Run an HTTP server implementing the generation service API:
GET /, GET /health, POST /generate-test-cases and POST /analyze-coverage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := backend.NewServer(backend.Options{
				Addr:           a.cfg.Server.Addr,
				Structured:     a.cfg.Server.Structured,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
			}, a.logger)
			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8000)")
	cmd.Flags().Bool("structured", false, "return test case lists instead of text")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("server.structured", cmd.Flags().Lookup("structured"))

	return cmd
}
