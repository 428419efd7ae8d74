package analysis

import (
	"fmt"
	"strings"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/classifier"
	"github.com/subghzlab/subscan-go/internal/conf"
)

// CompareAnalysis analyzes two capture files and prints a report of how
// likely they came from the same transmitter.
func CompareAnalysis(settings *conf.Settings, pathA, pathB string) error {
	if err := validateCaptureFile(pathA); err != nil {
		return err
	}
	if err := validateCaptureFile(pathB); err != nil {
		return err
	}

	a, err := capture.ParseFile(pathA)
	if err != nil {
		return err
	}
	b, err := capture.ParseFile(pathB)
	if err != nil {
		return err
	}

	comparison := classifier.Compare(a, b, decoderOptions(settings))
	fmt.Print(renderComparison(pathA, pathB, &comparison))
	return nil
}

// renderComparison formats a pairwise comparison report.
func renderComparison(pathA, pathB string, comparison *classifier.Comparison) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== Comparing %s and %s ===\n\n", pathA, pathB)
	fmt.Fprintf(&sb, "Same Device Probability: %.0f%%\n", comparison.SameDeviceProbability*100)

	if len(comparison.Similarities) > 0 {
		sb.WriteString("\nSimilarities:\n")
		for _, s := range comparison.Similarities {
			fmt.Fprintf(&sb, "  + %s\n", s)
		}
	}
	if len(comparison.Differences) > 0 {
		sb.WriteString("\nDifferences:\n")
		for _, d := range comparison.Differences {
			fmt.Fprintf(&sb, "  - %s\n", d)
		}
	}

	fmt.Fprintf(&sb, "\nFirst Signal: %s (%.0f%%)\n",
		comparison.First.SignalType, comparison.First.Confidence*100)
	fmt.Fprintf(&sb, "Second Signal: %s (%.0f%%)\n",
		comparison.Second.SignalType, comparison.Second.Confidence*100)

	return sb.String()
}
