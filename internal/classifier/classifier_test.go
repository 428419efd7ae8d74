package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/decoder"
)

// pulsesForBits builds a pulse train that decodes back to bits with the
// OOK/PWM decoders. Bit sequences must not contain more 1s than 0s.
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

func repeatBits(block []int, n int) []int {
	out := make([]int, 0, len(block)*n)
	for i := 0; i < n; i++ {
		out = append(out, block...)
	}
	return out
}

func TestEntropyScore(t *testing.T) {
	t.Parallel()

	assert.Zero(t, entropyScore(nil))
	assert.Zero(t, entropyScore([]int{0, 0, 0, 0}))
	assert.Zero(t, entropyScore([]int{1, 1, 1, 1}))

	// Equal split must be exactly 1.0, not approximately.
	assert.Equal(t, 1.0, entropyScore([]int{1, 0, 1, 0, 1, 0}))
	assert.Equal(t, 1.0, entropyScore([]int{1, 1, 0, 0}))

	// Skewed distributions fall strictly between 0 and 1.
	skewed := entropyScore([]int{1, 0, 0, 0})
	assert.Greater(t, skewed, 0.0)
	assert.Less(t, skewed, 1.0)
}

func TestComplexityScore(t *testing.T) {
	t.Parallel()

	assert.Zero(t, complexityScore(nil))
	assert.Zero(t, complexityScore([]int{1, 1, 1}))
	// Alternating: every adjacent pair transitions.
	assert.InDelta(t, 7.0/8.0, complexityScore([]int{1, 0, 1, 0, 1, 0, 1, 0}), 1e-9)
	assert.InDelta(t, 1.0/4.0, complexityScore([]int{0, 0, 1, 1}), 1e-9)
}

func TestPatternRepetition(t *testing.T) {
	t.Parallel()

	// Below 8 bits no repetition analysis happens.
	assert.Zero(t, patternRepetition([]int{1, 0, 1, 0, 1, 0, 1}))

	// A perfectly periodic sequence repeats in (windows-1)/windows of
	// its period windows.
	periodic := repeatBits([]int{1, 1, 0}, 6) // 18 bits, period 3
	assert.InDelta(t, 5.0/6.0, patternRepetition(periodic), 1e-9)

	// An aperiodic prefix keeps the ratio low.
	aperiodic := []int{1, 1, 0, 1, 0, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0, 0, 1}
	assert.Less(t, patternRepetition(aperiodic), 0.5)
}

func TestBitLengthCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits int
		want string
	}{
		{0, BitLengthShort},
		{19, BitLengthShort},
		{20, BitLengthMedium},
		{39, BitLengthMedium},
		{40, BitLengthLong},
		{69, BitLengthLong},
		{70, BitLengthVeryLong},
		{128, BitLengthVeryLong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bitLengthCategory(tt.bits), "bit count %d", tt.bits)
	}
}

func TestFrequencyCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		freq int
		want string
	}{
		{315000000, BandLowUHF},
		{349999999, BandLowUHF},
		{350000000, BandMidUHF},
		{390000000, BandMidUHF},
		{400000000, BandHighUHF},
		{433920000, BandHighUHF},
		{449999999, BandHighUHF},
		{450000000, BandOther},
		{868000000, BandOther},
		{27000000, BandOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, frequencyCategory(tt.freq), "frequency %d", tt.freq)
	}
}

func TestEncodingComplexity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EncodingSimple, encodingComplexity(conf.EncodingOOK))
	assert.Equal(t, EncodingComplex, encodingComplexity(conf.EncodingPWM))
	assert.Equal(t, EncodingComplex, encodingComplexity(conf.EncodingManchester))
	assert.Equal(t, EncodingUnknown, encodingComplexity(""))
}

func TestClassifyEmptyCapture(t *testing.T) {
	t.Parallel()

	classification := Classify(&capture.Capture{Frequency: 433920000}, decoder.Options{})

	assert.Equal(t, TypeUnknown, classification.SignalType)
	assert.Zero(t, classification.Confidence)
	assert.Contains(t, classification.Reasoning, "No signal data available")
}

// A 66-bit PWM signal with an alternating preamble at 433.92 MHz is the
// textbook rolling-code transmission.
func TestClassifyRollingCodeCapture(t *testing.T) {
	t.Parallel()

	data := repeatBits([]int{1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0}, 4)
	data = append(data, 1, 0, 1, 1, 0, 0, 1, 0, 1, 0) // 58 data bits, 29 ones
	bits := append([]int{1, 0, 1, 0, 1, 0, 1, 0}, data...)
	require.Len(t, bits, 66)

	c := &capture.Capture{Frequency: 433920000, Pulses: pulsesForBits(bits)}
	classification := Classify(c, decoder.Options{Encoding: conf.EncodingPWM})

	assert.Contains(t, []string{"KeeLoq", "HCS301", "HCS200"}, classification.ProtocolInfo.Protocol)
	assert.GreaterOrEqual(t, classification.ProtocolInfo.Confidence, 0.4)
	assert.Equal(t, TypeRolling, classification.SignalType)
	assert.Greater(t, classification.Confidence, 0.6)
	assert.True(t, classification.Characteristics.HasPreamble)
	assert.Equal(t, 66, classification.Characteristics.DecodedBits)
}

// A short 12-bit OOK burst at 433.92 MHz with no preamble is a classic
// fixed-code gate remote and must never classify as rolling.
func TestClassifyFixedCodeCapture(t *testing.T) {
	t.Parallel()

	bits := []int{1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0}
	c := &capture.Capture{Frequency: 433920000, Pulses: pulsesForBits(bits)}
	classification := Classify(c, decoder.Options{})

	assert.Equal(t, conf.EncodingOOK, classification.Characteristics.Encoding)
	assert.Equal(t, 12, classification.Characteristics.DecodedBits)
	assert.False(t, classification.Characteristics.HasPreamble)
	assert.Contains(t, []string{TypeFixed, TypeUncertain}, classification.SignalType)
	assert.NotEqual(t, TypeRolling, classification.SignalType)
}

// Reasoning entries must follow the fixed rule order.
func TestClassifyReasoningOrder(t *testing.T) {
	t.Parallel()

	bits := []int{1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0}
	c := &capture.Capture{Frequency: 433920000, Pulses: pulsesForBits(bits)}
	classification := Classify(c, decoder.Options{})

	assert.Equal(t, []string{
		"Protocol came is typically fixed code",
		"Shorter bit length suggests fixed code",
		"Simple encoding (OOK) often used in fixed codes",
		"High signal complexity suggests rolling code",
		"High entropy suggests rolling code",
	}, classification.Reasoning)
	assert.Equal(t, TypeFixed, classification.SignalType)
}

func TestApplyRulesUncertain(t *testing.T) {
	t.Parallel()

	// Long bit length pulls rolling, simple encoding and low complexity
	// pull fixed; neither side clears the decision threshold.
	classification := Classification{
		Characteristics: Characteristics{
			BitLengthCategory:  BitLengthLong,    // rolling +0.2
			EncodingComplexity: EncodingSimple,   // fixed +0.1
			ComplexityScore:    0.1,              // fixed +0.1
			EntropyScore:       0.6,              // no rule
			PatternRepetition:  0.5,              // no rule
			FrequencyCategory:  BandHighUHF,      // rolling +0.05
			IdentifiedProtocol: "Unknown",
		},
	}
	applyRules(&classification)

	assert.Equal(t, TypeUncertain, classification.SignalType)
	assert.InDelta(t, 0.25/0.45, classification.Confidence, 1e-9)
	assert.Contains(t, classification.Reasoning, "Classification uncertain due to mixed indicators")
}

func TestApplyRulesNoSignals(t *testing.T) {
	t.Parallel()

	// No rule fires when every characteristic sits in the dead zone.
	classification := Classification{
		Characteristics: Characteristics{
			IdentifiedProtocol: "Unknown",
			EncodingComplexity: EncodingUnknown,
			ComplexityScore:    0.3,
			EntropyScore:       0.6,
			PatternRepetition:  0.5,
			FrequencyCategory:  BandOther,
		},
	}
	applyRules(&classification)

	assert.Equal(t, TypeUnknown, classification.SignalType)
	assert.Zero(t, classification.Confidence)
	assert.Contains(t, classification.Reasoning, "Insufficient data for classification")
}

func TestCharacteristicsMap(t *testing.T) {
	t.Parallel()

	ch := Characteristics{Frequency: 433920000, DecodedBits: 24, Encoding: conf.EncodingOOK}
	m := ch.Map()
	assert.Equal(t, 433920000, m["frequency"])
	assert.Equal(t, 24, m["decoded_bits"])
	assert.Equal(t, conf.EncodingOOK, m["encoding"])
	assert.Len(t, m, 13)
}
