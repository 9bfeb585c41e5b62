package main

import (
	"fmt"
	"os"

	"github.com/aretw0/automata/internal/cli"
	"github.com/aretw0/automata/internal/presentation/tui"
	"github.com/aretw0/automata/pkg/observability"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the configured automaton store as a JSON API, with Prometheus metrics at /metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			env.cfg.Port, _ = cmd.Flags().GetInt("port")
			if err := env.cfg.Validate(); err != nil {
				return err
			}
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		eng, closeStore, err := cli.NewEngine(env.cfg, env.logger, metrics)
		if err != nil {
			return err
		}
		defer closeStore()

		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(cmd.ErrOrStderr(), termenv.EnvColorProfile())
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{
			Addr:     fmt.Sprintf(":%d", env.cfg.Port),
			Engine:   eng,
			Metrics:  metrics,
			Registry: reg,
			Logger:   env.logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
