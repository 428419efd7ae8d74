package classifier

import (
	"math"
	"slices"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/decoder"
	"github.com/subghzlab/subscan-go/internal/protocol"
)

// Bit length categories.
const (
	BitLengthShort    = "short"     // < 20 bits
	BitLengthMedium   = "medium"    // < 40 bits
	BitLengthLong     = "long"      // < 70 bits
	BitLengthVeryLong = "very_long" // >= 70 bits
)

// Encoding complexity categories.
const (
	EncodingSimple  = "simple"
	EncodingComplex = "complex"
	EncodingUnknown = "unknown"
)

// Frequency band categories.
const (
	BandLowUHF  = "low_uhf"  // [300, 350) MHz
	BandMidUHF  = "mid_uhf"  // [350, 400) MHz
	BandHighUHF = "high_uhf" // [400, 450) MHz
	BandOther   = "other"
)

// Characteristics are the signal features the rule engine scores.
type Characteristics struct {
	Frequency          int
	TotalPulses        int
	DecodedBits        int
	Encoding           string
	HasPreamble        bool
	IdentifiedProtocol string
	ProtocolConfidence float64

	BitLengthCategory  string
	ComplexityScore    float64
	EntropyScore       float64
	PatternRepetition  float64
	EncodingComplexity string
	FrequencyCategory  string
}

// Map renders the characteristics as a key/value map for reports and
// external consumers.
func (ch *Characteristics) Map() map[string]any {
	return map[string]any{
		"frequency":           ch.Frequency,
		"total_pulses":        ch.TotalPulses,
		"decoded_bits":        ch.DecodedBits,
		"encoding":            ch.Encoding,
		"has_preamble":        ch.HasPreamble,
		"identified_protocol": ch.IdentifiedProtocol,
		"protocol_confidence": ch.ProtocolConfidence,
		"bit_length_category": ch.BitLengthCategory,
		"complexity_score":    ch.ComplexityScore,
		"entropy_score":       ch.EntropyScore,
		"pattern_repetition":  ch.PatternRepetition,
		"encoding_complexity": ch.EncodingComplexity,
		"frequency_category":  ch.FrequencyCategory,
	}
}

// deriveCharacteristics computes the classification features from the
// capture, its decoded signal and the protocol identification.
func deriveCharacteristics(c *capture.Capture, sig *decoder.Signal, id *protocol.Identification) Characteristics {
	ch := Characteristics{
		Frequency:          c.Frequency,
		TotalPulses:        len(c.Pulses),
		DecodedBits:        len(sig.Bits),
		Encoding:           sig.Encoding,
		HasPreamble:        sig.PreambleFound,
		IdentifiedProtocol: id.Protocol,
		ProtocolConfidence: id.Confidence,

		BitLengthCategory:  bitLengthCategory(len(sig.Bits)),
		ComplexityScore:    complexityScore(sig.Bits),
		EntropyScore:       entropyScore(sig.Bits),
		PatternRepetition:  patternRepetition(sig.Bits),
		EncodingComplexity: encodingComplexity(sig.Encoding),
		FrequencyCategory:  frequencyCategory(c.Frequency),
	}
	return ch
}

func bitLengthCategory(bitCount int) string {
	switch {
	case bitCount < 20:
		return BitLengthShort
	case bitCount < 40:
		return BitLengthMedium
	case bitCount < 70:
		return BitLengthLong
	default:
		return BitLengthVeryLong
	}
}

// complexityScore is the ratio of adjacent bit-value transitions to bit
// count. An empty sequence scores 0.
func complexityScore(bits []int) float64 {
	if len(bits) == 0 {
		return 0
	}
	transitions := 0
	for i := 1; i < len(bits); i++ {
		if bits[i] != bits[i-1] {
			transitions++
		}
	}
	return float64(transitions) / float64(len(bits))
}

// entropyScore is the Shannon entropy (base 2) of the 0/1 distribution,
// exactly 0.0 for empty or constant sequences and exactly 1.0 for an
// equal split.
func entropyScore(bits []int) float64 {
	if len(bits) == 0 {
		return 0
	}
	ones := 0
	for _, b := range bits {
		ones += b
	}
	zeros := len(bits) - ones
	if zeros == 0 || ones == 0 {
		return 0
	}
	if zeros == ones {
		return 1
	}
	pZero := float64(zeros) / float64(len(bits))
	pOne := float64(ones) / float64(len(bits))
	return -(pZero*math.Log2(pZero) + pOne*math.Log2(pOne))
}

// patternRepetition looks for repeats of the sequence's leading window:
// for each candidate period, the ratio of non-overlapping windows equal
// to the first window over the total window count, maximized over all
// periods. Sequences shorter than 8 bits score 0.
func patternRepetition(bits []int) float64 {
	if len(bits) < 8 {
		return 0
	}
	var maxRepetition float64
	for period := 2; period < min(16, len(bits)/2); period++ {
		pattern := bits[:period]
		repetitions := 0
		for i := period; i+period <= len(bits); i += period {
			if slices.Equal(bits[i:i+period], pattern) {
				repetitions++
			}
		}
		ratio := float64(repetitions) / float64(len(bits)/period)
		if ratio > maxRepetition {
			maxRepetition = ratio
		}
	}
	return maxRepetition
}

func encodingComplexity(encoding string) string {
	switch encoding {
	case conf.EncodingOOK:
		return EncodingSimple
	case conf.EncodingPWM, conf.EncodingManchester:
		return EncodingComplex
	default:
		return EncodingUnknown
	}
}

func frequencyCategory(freq int) string {
	switch {
	case freq >= 300000000 && freq < 350000000:
		return BandLowUHF
	case freq >= 350000000 && freq < 400000000:
		return BandMidUHF
	case freq >= 400000000 && freq < 450000000:
		return BandHighUHF
	default:
		return BandOther
	}
}
