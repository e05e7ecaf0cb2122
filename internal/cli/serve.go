package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/v-nys/lblp-build-zip-plugin/internal/server"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/observability"
)

// serveCommand exposes the entry points over HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the archive builder over HTTP",
		Long: `Serve exposes GET /params_schema and POST /process_paths, writing archives
through the configured host backend. It stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	hooks := observability.NewLogHooks(c.Logger)
	runner.Hooks = hooks
	runner.CacheHooks = hooks

	s := server.New(runner, c.Logger)
	s.Hooks = hooks
	printNextStep(c.Out, "Serving "+cfg.Host.Backend+" host on", cfg.Server.Addr)
	return s.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Duration)
}
