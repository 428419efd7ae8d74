package watch

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/subghzlab/subscan-go/internal/analysis"
	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/observability"
)

// Command creates the watch command for continuous directory analysis.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a directory and analyze captures as they appear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			metrics, err := observability.NewMetrics()
			if err != nil {
				return err
			}

			err = analysis.WatchAnalysis(ctx, settings, metrics)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Watch.MetricsAddr, "metrics-addr", settings.Watch.MetricsAddr, "Listen address for Prometheus metrics, empty to disable")
	cmd.Flags().BoolVar(&settings.Output.Log.Enabled, "log-output", settings.Output.Log.Enabled, "Append results to the results log")
	cmd.Flags().BoolVar(&settings.Output.SQLite.Enabled, "sqlite-output", settings.Output.SQLite.Enabled, "Save results to the SQLite database")
}
