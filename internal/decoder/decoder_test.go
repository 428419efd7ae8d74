package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/decoder"
)

// pulsesForBits builds a pulse train whose OOK decoding yields bits: each
// bit becomes a short gap pulse followed by a high pulse whose width
// encodes the bit value. Callers must not request more 1s than 0s or the
// secondary threshold lands above the short high pulses.
func pulsesForBits(bits []int) []int {
	pulses := make([]int, 0, 2*len(bits))
	for _, b := range bits {
		pulses = append(pulses, 100)
		if b == 1 {
			pulses = append(pulses, 900)
		} else {
			pulses = append(pulses, 500)
		}
	}
	return pulses
}

func levels(signal []capture.LevelSample) []int {
	out := make([]int, len(signal))
	for i, s := range signal {
		out[i] = s.Level
	}
	return out
}

func TestApplyThresholdLengthPreserved(t *testing.T) {
	t.Parallel()

	for _, pulses := range [][]int{nil, {}, {100}, {100, 200, 300}, pulsesForBits([]int{1, 0, 0, 1})} {
		signal := decoder.ApplyThreshold(pulses, conf.ThresholdMedian)
		assert.Len(t, signal, len(pulses))
	}
	assert.Empty(t, decoder.ApplyThreshold(nil, conf.ThresholdMean))
}

func TestApplyThresholdMethods(t *testing.T) {
	t.Parallel()

	pulses := []int{100, 200, 300, 1000}

	// Median threshold is 200: two samples above.
	assert.Equal(t, []int{0, 0, 1, 1}, levels(decoder.ApplyThreshold(pulses, conf.ThresholdMedian)))

	// Mean threshold is 400: only the outlier is above.
	assert.Equal(t, []int{0, 0, 0, 1}, levels(decoder.ApplyThreshold(pulses, conf.ThresholdMean)))

	// Adaptive threshold is the 25th/75th percentile midpoint (200).
	assert.Equal(t, []int{0, 0, 1, 1}, levels(decoder.ApplyThreshold(pulses, conf.ThresholdAdaptive)))
}

func TestDecodeOOKBitPerHighPulse(t *testing.T) {
	t.Parallel()

	signal := []capture.LevelSample{
		{Duration: 900, Level: 1},
		{Duration: 100, Level: 0},
		{Duration: 500, Level: 1},
		{Duration: 100, Level: 0},
		{Duration: 900, Level: 1},
		{Duration: 500, Level: 1},
	}

	bits := decoder.DecodeOOK(signal)
	require.Len(t, bits, 4) // one bit per level-1 sample
	assert.Equal(t, []int{1, 0, 1, 0}, bits)

	// PWM applies the same long/short rule.
	assert.Equal(t, bits, decoder.DecodePWM(signal))

	assert.Empty(t, decoder.DecodeOOK([]capture.LevelSample{{Duration: 100, Level: 0}}))
}

func TestDecodeManchester(t *testing.T) {
	t.Parallel()

	signal := []capture.LevelSample{
		{Level: 1}, {Level: 0}, // high-to-low = 1
		{Level: 0}, {Level: 1}, // low-to-high = 0
		{Level: 1}, {Level: 1}, // no transition, no bit
		{Level: 0}, {Level: 1}, // low-to-high = 0
	}

	assert.Equal(t, []int{1, 0, 0}, decoder.DecodeManchester(signal))
	assert.Empty(t, decoder.DecodeManchester(signal[:1]))
	assert.Empty(t, decoder.DecodeManchester(nil))
}

func TestDecodeManchesterLengthBound(t *testing.T) {
	t.Parallel()

	signal := decoder.ApplyThreshold(pulsesForBits([]int{1, 0, 1, 0, 0, 1, 0}), conf.ThresholdMedian)
	bits := decoder.DecodeManchester(signal)
	assert.LessOrEqual(t, len(bits), len(signal)/2)
}

func TestFindPreamble(t *testing.T) {
	t.Parallel()

	pattern := []int{1, 0, 1, 0, 1, 0, 1, 0}

	tests := []struct {
		name string
		bits []int
		want int
	}{
		{"at start", []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 1}, 0},
		{"offset", []int{1, 1, 1, 0, 1, 0, 1, 0, 1, 0, 0}, 2},
		{"too short", []int{1, 0, 1, 0}, -1},
		{"no match", []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, -1},
		{"empty", nil, -1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decoder.FindPreamble(tt.bits, pattern))
		})
	}

	// nil pattern falls back to the default alternating preamble.
	assert.Equal(t, 0, decoder.FindPreamble([]int{1, 0, 1, 0, 1, 0, 1, 0, 1}, nil))
}

func TestExtractDataBits(t *testing.T) {
	t.Parallel()

	bits := []int{1, 1, 0, 0, 1, 0}
	assert.Equal(t, []int{0, 0, 1, 0}, decoder.ExtractDataBits(bits, 2, 24))
	assert.Equal(t, []int{1, 1}, decoder.ExtractDataBits(bits, 0, 2))
	assert.Empty(t, decoder.ExtractDataBits(bits, 6, 24))
}

func TestBitsToHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bits []int
		want string
	}{
		{"single nibble", []int{1, 0, 1, 0}, "A"},
		{"empty", nil, ""},
		{"two nibbles", []int{1, 1, 1, 1, 0, 0, 0, 1}, "F1"},
		{"right padded", []int{1, 0, 1}, "A"},
		{"all zeros", []int{0, 0, 0, 0}, "0"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decoder.BitsToHex(tt.bits))
		})
	}
}

func TestBitsToHexDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	bits := []int{1, 0, 1}
	_ = decoder.BitsToHex(bits)
	assert.Equal(t, []int{1, 0, 1}, bits)
}

func TestDecodeAutoPrefersOOKOnTies(t *testing.T) {
	t.Parallel()

	// OOK, Manchester and PWM all decode this train to the same bit
	// count, so the fixed priority order must pick OOK.
	c := &capture.Capture{Pulses: pulsesForBits([]int{1, 0, 0, 1, 0, 1, 0, 0, 1, 0})}
	signal := decoder.Decode(c, decoder.Options{})

	assert.Equal(t, conf.EncodingOOK, signal.Encoding)
	assert.Equal(t, []int{1, 0, 0, 1, 0, 1, 0, 0, 1, 0}, signal.Bits)
}

func TestDecodeAutoDisqualifiesUnreasonableBitCounts(t *testing.T) {
	t.Parallel()

	// Build a train whose OOK/PWM decoding exceeds 1000 bits while the
	// Manchester decoding stays in range: 900 transition pairs plus
	// filler pairs without transitions.
	var pulses []int
	for i := 0; i < 900; i++ {
		pulses = append(pulses, 900, 100)
	}
	for i := 0; i < 51; i++ {
		pulses = append(pulses, 900, 900)
	}
	for i := 0; i < 60; i++ {
		pulses = append(pulses, 100, 100)
	}

	signal := decoder.Decode(&capture.Capture{Pulses: pulses}, decoder.Options{})
	assert.Equal(t, conf.EncodingManchester, signal.Encoding)
	assert.Len(t, signal.Bits, 900)
}

func TestDecodePreambleAndDataExtraction(t *testing.T) {
	t.Parallel()

	dataBits := []int{1, 1, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0, 1, 0, 0, 1}
	bits := append([]int{1, 0, 1, 0, 1, 0, 1, 0}, dataBits...)

	signal := decoder.Decode(&capture.Capture{Pulses: pulsesForBits(bits)}, decoder.Options{DataLength: 16})
	require.True(t, signal.PreambleFound)
	assert.Equal(t, 0, signal.PreambleIndex)
	assert.Equal(t, dataBits, signal.DataBits)
	assert.Equal(t, decoder.BitsToHex(dataBits), signal.HexData)
	assert.Len(t, signal.BinarySignal, len(signal.Bits)*2)
}

func TestDecodeNoPreambleUsesAllBits(t *testing.T) {
	t.Parallel()

	bits := []int{1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0}
	signal := decoder.Decode(&capture.Capture{Pulses: pulsesForBits(bits)}, decoder.Options{})

	assert.False(t, signal.PreambleFound)
	assert.Equal(t, -1, signal.PreambleIndex)
	assert.Empty(t, signal.DataBits)
	assert.Equal(t, decoder.BitsToHex(bits), signal.HexData)
}

func TestDecodeEmptyCapture(t *testing.T) {
	t.Parallel()

	signal := decoder.Decode(&capture.Capture{}, decoder.Options{})
	assert.Empty(t, signal.Bits)
	assert.Empty(t, signal.Encoding)
	assert.Equal(t, -1, signal.PreambleIndex)
	assert.False(t, signal.PreambleFound)
	assert.Empty(t, signal.HexData)
}

func TestDecodeExplicitEncoding(t *testing.T) {
	t.Parallel()

	bits := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0}
	c := &capture.Capture{Pulses: pulsesForBits(bits)}

	pwm := decoder.Decode(c, decoder.Options{Encoding: conf.EncodingPWM})
	assert.Equal(t, conf.EncodingPWM, pwm.Encoding)
	assert.Equal(t, bits, pwm.Bits)

	manchester := decoder.Decode(c, decoder.Options{Encoding: conf.EncodingManchester})
	assert.Equal(t, conf.EncodingManchester, manchester.Encoding)
}
