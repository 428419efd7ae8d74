package classifier

import (
	"fmt"
	"strings"

	"github.com/subghzlab/subscan-go/internal/protocol"
)

// Summary renders a human-readable report of a classification.
func Summary(classification *Classification) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Signal Type: %s\n", classification.SignalType)
	fmt.Fprintf(&sb, "Confidence: %.2f%%\n", classification.Confidence*100)
	sb.WriteString("\nAnalysis:\n")
	for _, reason := range classification.Reasoning {
		fmt.Fprintf(&sb, "  - %s\n", reason)
	}

	if classification.ProtocolInfo.Protocol != protocol.Unknown {
		fmt.Fprintf(&sb, "\nIdentified Protocol: %s\n", classification.ProtocolInfo.Protocol)
		fmt.Fprintf(&sb, "Protocol Confidence: %.2f%%\n", classification.ProtocolInfo.Confidence*100)
	}

	ch := &classification.Characteristics
	if ch.TotalPulses > 0 {
		sb.WriteString("\nKey Characteristics:\n")
		fmt.Fprintf(&sb, "  - Bit Length: %d bits (%s)\n", ch.DecodedBits, ch.BitLengthCategory)
		fmt.Fprintf(&sb, "  - Encoding: %s (%s complexity)\n", ch.Encoding, ch.EncodingComplexity)
		fmt.Fprintf(&sb, "  - Signal Complexity: %.3f\n", ch.ComplexityScore)
		fmt.Fprintf(&sb, "  - Entropy Score: %.3f\n", ch.EntropyScore)
		fmt.Fprintf(&sb, "  - Pattern Repetition: %.3f\n", ch.PatternRepetition)
	}

	return sb.String()
}
