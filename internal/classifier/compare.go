package classifier

import (
	"fmt"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/decoder"
	"github.com/subghzlab/subscan-go/internal/protocol"
)

// freqMatchTolerance is the maximum carrier frequency difference, in Hz,
// still counted as the same frequency.
const freqMatchTolerance = 1000

// Comparison is the pairwise similarity result for two captures.
type Comparison struct {
	SameDeviceProbability float64
	Similarities          []string
	Differences           []string
	First                 Classification
	Second                Classification
}

// Compare runs the full pipeline on both captures and scores how likely
// they came from the same transmitter. The probability is symmetric in
// its arguments.
func Compare(a, b *capture.Capture, opts decoder.Options) Comparison {
	result := Comparison{
		First:  Classify(a, opts),
		Second: Classify(b, opts),
	}

	var score float64

	if absInt(a.Frequency-b.Frequency) < freqMatchTolerance {
		score += 0.3
		result.Similarities = append(result.Similarities, "Same frequency")
	} else {
		result.Differences = append(result.Differences,
			fmt.Sprintf("Different frequencies: %d vs %d", a.Frequency, b.Frequency))
	}

	proto1 := result.First.ProtocolInfo.Protocol
	proto2 := result.Second.ProtocolInfo.Protocol
	switch {
	case proto1 == proto2 && proto1 != protocol.Unknown:
		score += 0.3
		result.Similarities = append(result.Similarities, "Same protocol: "+proto1)
	case proto1 != proto2:
		result.Differences = append(result.Differences,
			fmt.Sprintf("Different protocols: %s vs %s", proto1, proto2))
	}

	if result.First.SignalType == result.Second.SignalType {
		score += 0.2
		result.Similarities = append(result.Similarities, "Same signal type: "+result.First.SignalType)
	} else {
		result.Differences = append(result.Differences,
			fmt.Sprintf("Different signal types: %s vs %s", result.First.SignalType, result.Second.SignalType))
	}

	bits1 := result.First.Characteristics.DecodedBits
	bits2 := result.Second.Characteristics.DecodedBits
	if absInt(bits1-bits2) <= 2 {
		score += 0.1
		result.Similarities = append(result.Similarities, "Similar bit lengths")
	} else {
		result.Differences = append(result.Differences,
			fmt.Sprintf("Different bit lengths: %d vs %d", bits1, bits2))
	}

	enc1 := result.First.Characteristics.Encoding
	enc2 := result.Second.Characteristics.Encoding
	if enc1 == enc2 {
		score += 0.1
		result.Similarities = append(result.Similarities, "Same encoding: "+enc1)
	} else {
		result.Differences = append(result.Differences,
			fmt.Sprintf("Different encodings: %s vs %s", enc1, enc2))
	}

	result.SameDeviceProbability = score
	return result
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
