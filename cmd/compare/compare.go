package compare

import (
	"github.com/spf13/cobra"

	"github.com/subghzlab/subscan-go/internal/analysis"
	"github.com/subghzlab/subscan-go/internal/conf"
)

// Command creates the compare command for pairwise signal comparison.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [first.sub] [second.sub]",
		Short: "Compare two capture files",
		Long:  "Analyze two captures and estimate how likely they came from the same transmitter.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.CompareAnalysis(settings, args[0], args[1])
		},
	}
}
