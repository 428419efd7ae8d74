// Package protocol identifies which known sub-GHz remote-control protocol
// produced a decoded capture, scored against a fixed signature catalog.
package protocol

import "github.com/subghzlab/subscan-go/internal/conf"

// Signature describes one known protocol: the frequency band it transmits
// on, its typical payload length and encoding, and an optional preamble.
type Signature struct {
	Name             string
	FreqLow          int // inclusive lower bound, Hz
	FreqHigh         int // inclusive upper bound, Hz
	TypicalBitLength int
	Encoding         string
	PreamblePattern  []int
	Description      string
}

// Catalog is the static list of known protocol signatures. It is read-only
// reference data shared across all concurrent analyses.
var Catalog = []Signature{
	{
		Name:             "KeeLoq",
		FreqLow:          315000000,
		FreqHigh:         434000000,
		TypicalBitLength: 66,
		Encoding:         conf.EncodingPWM,
		PreamblePattern:  []int{1, 0, 1, 0, 1, 0, 1, 0},
		Description:      "Rolling code protocol used in car remotes",
	},
	{
		Name:             "Fixed Code",
		FreqLow:          300000000,
		FreqHigh:         450000000,
		TypicalBitLength: 24,
		Encoding:         conf.EncodingOOK,
		PreamblePattern:  []int{1, 0, 1, 0, 1, 0},
		Description:      "Simple fixed code protocol",
	},
	{
		Name:             "HCS301",
		FreqLow:          315000000,
		FreqHigh:         434000000,
		TypicalBitLength: 66,
		Encoding:         conf.EncodingPWM,
		Description:      "Microchip HCS301 rolling code",
	},
	{
		Name:             "HCS200",
		FreqLow:          315000000,
		FreqHigh:         434000000,
		TypicalBitLength: 66,
		Encoding:         conf.EncodingPWM,
		Description:      "Microchip HCS200 rolling code",
	},
	{
		Name:             "Princeton",
		FreqLow:          315000000,
		FreqHigh:         434000000,
		TypicalBitLength: 24,
		Encoding:         conf.EncodingOOK,
		Description:      "Princeton PT2262/PT2272 protocol",
	},
	{
		Name:             "CAME",
		FreqLow:          433920000,
		FreqHigh:         433920000,
		TypicalBitLength: 12,
		Encoding:         conf.EncodingOOK,
		Description:      "CAME gate remote protocol",
	},
	{
		Name:             "Nice FLO",
		FreqLow:          433920000,
		FreqHigh:         433920000,
		TypicalBitLength: 12,
		Encoding:         conf.EncodingOOK,
		Description:      "Nice FLO protocol",
	},
	{
		Name:             "Chamberlain",
		FreqLow:          315000000,
		FreqHigh:         390000000,
		TypicalBitLength: 32,
		Encoding:         conf.EncodingPWM,
		Description:      "Chamberlain garage door opener",
	},
	{
		Name:             "Linear",
		FreqLow:          300000000,
		FreqHigh:         400000000,
		TypicalBitLength: 20,
		Encoding:         conf.EncodingOOK,
		Description:      "Linear garage door opener",
	},
	{
		Name:             "FAAC SLH",
		FreqLow:          433920000,
		FreqHigh:         433920000,
		TypicalBitLength: 64,
		Encoding:         conf.EncodingPWM,
		Description:      "FAAC SLH rolling code",
	},
}
