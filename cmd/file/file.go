package file

import (
	"github.com/spf13/cobra"

	"github.com/subghzlab/subscan-go/internal/analysis"
	"github.com/subghzlab/subscan-go/internal/conf"
)

// Command creates the file command for analyzing a single capture file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [input.sub]",
		Short: "Analyze a capture file",
		Long:  "Analyze a single Flipper Zero .sub capture file: decode the signal, identify the protocol and classify the code scheme.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			return analysis.FileAnalysis(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().BoolVar(&settings.Output.Log.Enabled, "log-output", settings.Output.Log.Enabled, "Append the result to the results log")
	cmd.Flags().BoolVar(&settings.Output.SQLite.Enabled, "sqlite-output", settings.Output.SQLite.Enabled, "Save the result to the SQLite database")
}
