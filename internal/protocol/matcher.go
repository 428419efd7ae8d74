package protocol

import (
	"fmt"
	"sort"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/decoder"
)

// Unknown is the identified protocol name when no signature qualifies.
const Unknown = "Unknown"

// Signatures scoring at or below this confidence are dropped from the
// match list.
const minMatchConfidence = 0.1

// nearRangeMargin is how far outside a signature's band a capture
// frequency may lie and still collect a reduced frequency score.
const nearRangeMargin = 50000000 // 50 MHz

// Match is one qualifying signature with its confidence and the
// human-readable reasons it matched.
type Match struct {
	Protocol    string
	Confidence  float64
	Description string
	Reasons     []string
}

// Identification is the ranked outcome of matching a capture against the
// signature catalog.
type Identification struct {
	Protocol   string  // best match, or Unknown
	Confidence float64 // confidence of the best match
	Matches    []Match // all qualifying matches, descending by confidence
}

// scoreRule is one weighted component of a signature's confidence. Rules
// are evaluated in fixed order so scores and reasons are reproducible.
type scoreRule func(c *capture.Capture, sig *decoder.Signal, s *Signature) float64

var scoreRules = []scoreRule{
	scoreFrequency,
	scoreBitLength,
	scoreEncoding,
	scorePreamble,
}

func scoreFrequency(c *capture.Capture, _ *decoder.Signal, s *Signature) float64 {
	switch {
	case c.Frequency >= s.FreqLow && c.Frequency <= s.FreqHigh:
		return 0.4
	case boundaryDistance(c.Frequency, s) < nearRangeMargin:
		return 0.2
	default:
		return 0
	}
}

func scoreBitLength(_ *capture.Capture, sig *decoder.Signal, s *Signature) float64 {
	if len(sig.Bits) == 0 {
		return 0
	}
	switch d := absInt(len(sig.Bits) - s.TypicalBitLength); {
	case d == 0:
		return 0.3
	case d <= 5:
		return 0.2
	case d <= 10:
		return 0.1
	default:
		return 0
	}
}

func scoreEncoding(_ *capture.Capture, sig *decoder.Signal, s *Signature) float64 {
	if sig.Encoding == s.Encoding {
		return 0.2
	}
	return 0
}

func scorePreamble(_ *capture.Capture, sig *decoder.Signal, s *Signature) float64 {
	// Only the presence of a preamble counts; the pattern content is not
	// compared against the signature's.
	if len(s.PreamblePattern) > 0 && sig.PreambleFound {
		return 0.1
	}
	return 0
}

// boundaryDistance is the distance from freq to the nearest edge of the
// signature's band. Zero when freq lies inside the band.
func boundaryDistance(freq int, s *Signature) int {
	if freq < s.FreqLow {
		return s.FreqLow - freq
	}
	if freq > s.FreqHigh {
		return freq - s.FreqHigh
	}
	return 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Confidence scores one signature against a capture and its decoded
// signal: the sum of the weighted rule scores, capped at 1.0.
func Confidence(c *capture.Capture, sig *decoder.Signal, s *Signature) float64 {
	var confidence float64
	for _, rule := range scoreRules {
		confidence += rule(c, sig, s)
	}
	return min(confidence, 1.0)
}

// matchReasons re-checks the scoring conditions independently and emits a
// descriptive sentence for each that holds.
func matchReasons(c *capture.Capture, sig *decoder.Signal, s *Signature) []string {
	var reasons []string

	if c.Frequency >= s.FreqLow && c.Frequency <= s.FreqHigh {
		reasons = append(reasons, fmt.Sprintf("Frequency %d Hz matches expected range", c.Frequency))
	}
	if absInt(len(sig.Bits)-s.TypicalBitLength) <= 5 {
		reasons = append(reasons, fmt.Sprintf("Bit length %d close to expected %d", len(sig.Bits), s.TypicalBitLength))
	}
	if sig.Encoding == s.Encoding {
		reasons = append(reasons, fmt.Sprintf("Encoding type %s matches", s.Encoding))
	}
	if len(s.PreamblePattern) > 0 && sig.PreambleFound {
		reasons = append(reasons, "Preamble pattern detected")
	}

	return reasons
}

// Identify matches a capture and its decoded signal against the catalog.
// Captures without timing data identify as Unknown with zero confidence.
func Identify(c *capture.Capture, sig *decoder.Signal) Identification {
	result := Identification{Protocol: Unknown}

	if len(c.Pulses) == 0 {
		return result
	}

	for i := range Catalog {
		s := &Catalog[i]
		confidence := Confidence(c, sig, s)
		if confidence <= minMatchConfidence {
			continue
		}
		result.Matches = append(result.Matches, Match{
			Protocol:    s.Name,
			Confidence:  confidence,
			Description: s.Description,
			Reasons:     matchReasons(c, sig, s),
		})
	}

	// Stable sort keeps catalog order between equal confidences.
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	if len(result.Matches) > 0 {
		result.Protocol = result.Matches[0].Protocol
		result.Confidence = result.Matches[0].Confidence
	}
	return result
}
