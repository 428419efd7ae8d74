// Package classifier scores decoded captures as rolling-code or
// fixed-code transmissions using a fixed, ordered table of weighted
// heuristic rules, and compares capture pairs for same-device likelihood.
package classifier

import (
	"fmt"
	"strings"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/decoder"
	"github.com/subghzlab/subscan-go/internal/protocol"
)

// Signal types.
const (
	TypeRolling   = "Rolling"
	TypeFixed     = "Fixed"
	TypeUncertain = "Uncertain"
	TypeUnknown   = "Unknown"
)

// decisionThreshold is the normalized score share a side needs to win the
// classification outright. The heuristic weights and thresholds in this
// package are hand-picked, not fitted to a labeled dataset; treat the
// reported confidence as a relative indicator, not a calibrated
// probability.
const decisionThreshold = 0.6

// Classification is the rolling-vs-fixed verdict for one capture.
type Classification struct {
	SignalType      string
	Confidence      float64
	Characteristics Characteristics
	Reasoning       []string
	ProtocolInfo    protocol.Identification
}

// Protocols with a known code scheme, matched case-insensitively against
// the identified protocol name.
var (
	rollingProtocols = map[string]bool{
		"keeloq": true, "hcs301": true, "hcs200": true, "faac slh": true, "chamberlain": true,
	}
	fixedProtocols = map[string]bool{
		"princeton": true, "fixed code": true, "came": true, "nice flo": true, "linear": true,
	}
)

// rule is one entry of the classification rule table. Rules are evaluated
// in fixed order; each triggered rule adds its weight to the rolling or
// fixed accumulator and appends one reasoning string (when it has one).
type rule struct {
	applies func(*Characteristics) bool
	rolling bool // true adds to the rolling score, false to fixed
	weight  float64
	reason  func(*Characteristics) string // nil for score-only rules
}

var classificationRules = []rule{
	// Rule 1: protocol-based classification.
	{
		applies: func(ch *Characteristics) bool {
			return ch.ProtocolConfidence > 0.5 && rollingProtocols[strings.ToLower(ch.IdentifiedProtocol)]
		},
		rolling: true,
		weight:  0.4,
		reason: func(ch *Characteristics) string {
			return fmt.Sprintf("Protocol %s is typically rolling code", strings.ToLower(ch.IdentifiedProtocol))
		},
	},
	{
		applies: func(ch *Characteristics) bool {
			return ch.ProtocolConfidence > 0.5 && fixedProtocols[strings.ToLower(ch.IdentifiedProtocol)]
		},
		weight: 0.4,
		reason: func(ch *Characteristics) string {
			return fmt.Sprintf("Protocol %s is typically fixed code", strings.ToLower(ch.IdentifiedProtocol))
		},
	},
	// Rule 2: bit length.
	{
		applies: func(ch *Characteristics) bool { return ch.BitLengthCategory == BitLengthVeryLong },
		rolling: true,
		weight:  0.3,
		reason:  staticReason("Very long bit length suggests rolling code"),
	},
	{
		applies: func(ch *Characteristics) bool { return ch.BitLengthCategory == BitLengthLong },
		rolling: true,
		weight:  0.2,
		reason:  staticReason("Long bit length suggests rolling code"),
	},
	{
		applies: func(ch *Characteristics) bool {
			return ch.BitLengthCategory == BitLengthShort || ch.BitLengthCategory == BitLengthMedium
		},
		weight: 0.2,
		reason: staticReason("Shorter bit length suggests fixed code"),
	},
	// Rule 3: encoding complexity.
	{
		applies: func(ch *Characteristics) bool { return ch.EncodingComplexity == EncodingComplex },
		rolling: true,
		weight:  0.15,
		reason:  staticReason("Complex encoding (PWM/Manchester) often used in rolling codes"),
	},
	{
		applies: func(ch *Characteristics) bool { return ch.EncodingComplexity == EncodingSimple },
		weight:  0.1,
		reason:  staticReason("Simple encoding (OOK) often used in fixed codes"),
	},
	// Rule 4: signal complexity.
	{
		applies: func(ch *Characteristics) bool { return ch.ComplexityScore > 0.4 },
		rolling: true,
		weight:  0.1,
		reason:  staticReason("High signal complexity suggests rolling code"),
	},
	{
		applies: func(ch *Characteristics) bool { return ch.ComplexityScore < 0.2 },
		weight:  0.1,
		reason:  staticReason("Low signal complexity suggests fixed code"),
	},
	// Rule 5: entropy.
	{
		applies: func(ch *Characteristics) bool { return ch.EntropyScore > 0.8 },
		rolling: true,
		weight:  0.1,
		reason:  staticReason("High entropy suggests rolling code"),
	},
	{
		applies: func(ch *Characteristics) bool { return ch.EntropyScore < 0.5 },
		weight:  0.05,
		reason:  staticReason("Low entropy suggests fixed code"),
	},
	// Rule 6: pattern repetition.
	{
		applies: func(ch *Characteristics) bool { return ch.PatternRepetition > 0.7 },
		weight:  0.15,
		reason:  staticReason("High pattern repetition suggests fixed code"),
	},
	{
		applies: func(ch *Characteristics) bool { return ch.PatternRepetition < 0.3 },
		rolling: true,
		weight:  0.1,
		reason:  staticReason("Low pattern repetition suggests rolling code"),
	},
	// Rule 7: the 433 MHz band is favored by rolling code remotes.
	// Score-only, no reasoning entry.
	{
		applies: func(ch *Characteristics) bool {
			return ch.FrequencyCategory == BandMidUHF || ch.FrequencyCategory == BandHighUHF
		},
		rolling: true,
		weight:  0.05,
	},
}

func staticReason(text string) func(*Characteristics) string {
	return func(*Characteristics) string { return text }
}

// Classify runs the decode and identification stages on a capture and
// scores the result as rolling or fixed code. Captures without timing
// data classify as Unknown.
func Classify(c *capture.Capture, opts decoder.Options) Classification {
	classification := Classification{SignalType: TypeUnknown}
	classification.ProtocolInfo = protocol.Identification{Protocol: protocol.Unknown}

	if len(c.Pulses) == 0 {
		classification.Reasoning = append(classification.Reasoning, "No signal data available")
		return classification
	}

	sig := decoder.Decode(c, opts)
	id := protocol.Identify(c, sig)
	classification.ProtocolInfo = id
	classification.Characteristics = deriveCharacteristics(c, sig, &id)

	applyRules(&classification)
	return classification
}

// applyRules evaluates the rule table in order and resolves the final
// signal type from the normalized accumulator scores.
func applyRules(classification *Classification) {
	ch := &classification.Characteristics

	var rollingScore, fixedScore float64
	for _, r := range classificationRules {
		if !r.applies(ch) {
			continue
		}
		if r.rolling {
			rollingScore += r.weight
		} else {
			fixedScore += r.weight
		}
		if r.reason != nil {
			classification.Reasoning = append(classification.Reasoning, r.reason(ch))
		}
	}

	total := rollingScore + fixedScore
	if total == 0 {
		classification.SignalType = TypeUnknown
		classification.Confidence = 0
		classification.Reasoning = append(classification.Reasoning, "Insufficient data for classification")
		return
	}

	rollingConf := rollingScore / total
	fixedConf := fixedScore / total
	switch {
	case rollingConf > decisionThreshold:
		classification.SignalType = TypeRolling
		classification.Confidence = rollingConf
	case fixedConf > decisionThreshold:
		classification.SignalType = TypeFixed
		classification.Confidence = fixedConf
	default:
		classification.SignalType = TypeUncertain
		classification.Confidence = max(rollingConf, fixedConf)
		classification.Reasoning = append(classification.Reasoning, "Classification uncertain due to mixed indicators")
	}
}
