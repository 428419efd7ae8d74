// Package decoder converts captured pulse trains into bitstreams. Pulse
// durations are thresholded into binary levels, then decoded with one of
// the competing encodings (OOK, Manchester, PWM) or with automatic
// selection between them.
package decoder

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/conf"
)

// DefaultPreamble is the alternating pattern most sub-GHz remotes send
// ahead of their payload.
var DefaultPreamble = []int{1, 0, 1, 0, 1, 0, 1, 0}

// DefaultDataLength is the number of data bits extracted after a preamble
// when the caller does not override it.
const DefaultDataLength = 24

// Bit counts outside this range disqualify a decoding candidate during
// automatic encoding selection.
const (
	minReasonableBits = 8
	maxReasonableBits = 1000
)

// Signal is the result of decoding one capture. It is recomputed on every
// Decode call; the encoding choice can legitimately differ between calls
// with different options.
type Signal struct {
	Encoding      string
	Bits          []int
	HexData       string
	PreambleFound bool
	PreambleIndex int // -1 when no preamble was found
	DataBits      []int
	BinarySignal  []capture.LevelSample // magnitude-thresholded levels
	RawPulses     int
}

// Options control decoding. Zero values fall back to the defaults used by
// the rest of the pipeline.
type Options struct {
	Encoding   string // auto, ook, manchester or pwm
	Threshold  string // median, mean or adaptive
	DataLength int    // data bits extracted after a preamble
	Preamble   []int  // preamble pattern to search for
}

func (o Options) withDefaults() Options {
	if o.Encoding == "" {
		o.Encoding = conf.EncodingAuto
	}
	if o.Threshold == "" {
		o.Threshold = conf.ThresholdMedian
	}
	if o.DataLength <= 0 {
		o.DataLength = DefaultDataLength
	}
	if len(o.Preamble) == 0 {
		o.Preamble = DefaultPreamble
	}
	return o
}

// ApplyThreshold converts pulse durations to binary level samples: level 1
// iff the duration exceeds the threshold computed by the given method.
// Output order matches input order and the lengths are always equal.
func ApplyThreshold(pulses []int, method string) []capture.LevelSample {
	if len(pulses) == 0 {
		return nil
	}

	durations := make([]float64, len(pulses))
	for i, p := range pulses {
		durations[i] = float64(p)
	}
	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	var threshold float64
	switch method {
	case conf.ThresholdMean:
		threshold = stat.Mean(durations, nil)
	case conf.ThresholdAdaptive:
		q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
		q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
		threshold = (q25 + q75) / 2
	default: // median
		threshold = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}

	signal := make([]capture.LevelSample, len(pulses))
	for i, p := range pulses {
		level := 0
		if float64(p) > threshold {
			level = 1
		}
		signal[i] = capture.LevelSample{Duration: p, Level: level}
	}
	return signal
}

// DecodeOOK decodes an On-Off-Keying signal: one bit per level-1 sample,
// 1 when its duration exceeds the median duration of the level-1 samples.
func DecodeOOK(signal []capture.LevelSample) []int {
	return decodeByHighPulseWidth(signal)
}

// DecodePWM decodes a Pulse-Width-Modulation signal. The long/short rule
// is the same as OOK; the threshold source is named separately because
// protocol signatures distinguish the two encodings.
func DecodePWM(signal []capture.LevelSample) []int {
	return decodeByHighPulseWidth(signal)
}

func decodeByHighPulseWidth(signal []capture.LevelSample) []int {
	var highs []float64
	for _, s := range signal {
		if s.Level == 1 {
			highs = append(highs, float64(s.Duration))
		}
	}
	if len(highs) == 0 {
		return nil
	}
	sorted := slices.Clone(highs)
	slices.Sort(sorted)
	threshold := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	bits := make([]int, 0, len(highs))
	for _, s := range signal {
		if s.Level != 1 {
			continue
		}
		if float64(s.Duration) > threshold {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}
	return bits
}

// DecodeManchester walks the signal two samples at a time: a high-to-low
// pair decodes to 1, low-to-high to 0, and a pair without a transition
// contributes no bit.
func DecodeManchester(signal []capture.LevelSample) []int {
	if len(signal) < 2 {
		return nil
	}
	var bits []int
	for i := 0; i+1 < len(signal); i += 2 {
		switch {
		case signal[i].Level == 1 && signal[i+1].Level == 0:
			bits = append(bits, 1)
		case signal[i].Level == 0 && signal[i+1].Level == 1:
			bits = append(bits, 0)
		}
	}
	return bits
}

// FindPreamble returns the first index where pattern occurs in bits, or -1
// when bits is shorter than pattern or contains no match.
func FindPreamble(bits, pattern []int) int {
	if len(pattern) == 0 {
		pattern = DefaultPreamble
	}
	if len(bits) < len(pattern) {
		return -1
	}
	for i := 0; i <= len(bits)-len(pattern); i++ {
		if slices.Equal(bits[i:i+len(pattern)], pattern) {
			return i
		}
	}
	return -1
}

// ExtractDataBits returns up to length bits starting at start, clipped to
// the available sequence.
func ExtractDataBits(bits []int, start, length int) []int {
	if start >= len(bits) {
		return nil
	}
	end := min(start+length, len(bits))
	return bits[start:end]
}

// BitsToHex packs a bit sequence into an uppercase hexadecimal string.
// The sequence is right-padded with zeros to a whole number of nibbles;
// the input slice is not modified.
func BitsToHex(bits []int) string {
	if len(bits) == 0 {
		return ""
	}

	padded := bits
	if len(bits)%4 != 0 {
		padded = make([]int, len(bits), len(bits)+4-len(bits)%4)
		copy(padded, bits)
		for len(padded)%4 != 0 {
			padded = append(padded, 0)
		}
	}

	hex := make([]byte, 0, len(padded)/4)
	for i := 0; i < len(padded); i += 4 {
		value := padded[i]*8 + padded[i+1]*4 + padded[i+2]*2 + padded[i+3]
		hex = append(hex, fmt.Sprintf("%X", value)...)
	}
	return string(hex)
}

// Decode runs the full bit decoding of a capture: thresholding, encoding
// selection, preamble search, data extraction and hex packing. Captures
// without timing data decode to an empty Signal rather than an error.
func Decode(c *capture.Capture, opts Options) *Signal {
	opts = opts.withDefaults()

	result := &Signal{
		PreambleIndex: -1,
		RawPulses:     len(c.Pulses),
	}
	if len(c.Pulses) == 0 {
		return result
	}

	result.BinarySignal = ApplyThreshold(c.Pulses, opts.Threshold)

	switch opts.Encoding {
	case conf.EncodingOOK:
		result.Encoding = conf.EncodingOOK
		result.Bits = DecodeOOK(result.BinarySignal)
	case conf.EncodingManchester:
		result.Encoding = conf.EncodingManchester
		result.Bits = DecodeManchester(result.BinarySignal)
	case conf.EncodingPWM:
		result.Encoding = conf.EncodingPWM
		result.Bits = DecodePWM(result.BinarySignal)
	default:
		result.Encoding, result.Bits = selectEncoding(result.BinarySignal)
	}

	if len(result.Bits) == 0 {
		return result
	}

	if idx := FindPreamble(result.Bits, opts.Preamble); idx >= 0 {
		result.PreambleFound = true
		result.PreambleIndex = idx
		result.DataBits = ExtractDataBits(result.Bits, idx+len(opts.Preamble), opts.DataLength)
		result.HexData = BitsToHex(result.DataBits)
	} else {
		result.HexData = BitsToHex(result.Bits)
	}

	return result
}

// selectEncoding runs all decoders and picks the winner: the candidate
// with the strictly greatest score, where the score is the bit count when
// it falls in a reasonable range and zero otherwise. Ties keep the
// earlier candidate, giving the fixed priority OOK > Manchester > PWM.
func selectEncoding(signal []capture.LevelSample) (string, []int) {
	candidates := []struct {
		encoding string
		bits     []int
	}{
		{conf.EncodingOOK, DecodeOOK(signal)},
		{conf.EncodingManchester, DecodeManchester(signal)},
		{conf.EncodingPWM, DecodePWM(signal)},
	}

	best := candidates[0]
	bestScore := candidateScore(best.bits)
	for _, cand := range candidates[1:] {
		if score := candidateScore(cand.bits); score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best.encoding, best.bits
}

func candidateScore(bits []int) int {
	if len(bits) >= minReasonableBits && len(bits) <= maxReasonableBits {
		return len(bits)
	}
	return 0
}
