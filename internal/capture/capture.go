// Package capture parses Flipper Zero .sub capture files into raw pulse
// trains for the analysis pipeline.
package capture

import (
	"bufio"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/subghzlab/subscan-go/internal/errors"
)

// Capture holds the contents of a parsed .sub file. A Capture is created
// once per input file and is not modified afterwards.
type Capture struct {
	Filetype  string
	Version   int
	Frequency int    // carrier frequency in Hz
	Preset    string // radio preset name
	Protocol  string // protocol hint declared by the capturing device
	Key       string // decoded key for non-raw captures
	RawData   []int  // signed timing values as written in the file
	Pulses    []int  // pulse duration magnitudes, zeros dropped
}

// LevelSample is a (duration, level) pair of a rectangular signal.
type LevelSample struct {
	Duration int
	Level    int
}

// ParseFile parses a .sub file at path. It fails when the file is missing
// or when it declares neither raw timing data nor a key.
func ParseFile(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		category := errors.CategoryFileIO
		if errors.Is(err, fs.ErrNotExist) {
			category = errors.CategoryNotFound
		}
		return nil, errors.Newf("sub file not found: %s", path).
			Category(category).
			Context("path", path).
			Build()
	}
	defer f.Close()

	c := &Capture{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Filetype":
			c.Filetype = value
		case "Version":
			if v, err := strconv.Atoi(value); err == nil {
				c.Version = v
			} else {
				return nil, formatError(path, "invalid Version value: "+value)
			}
		case "Frequency":
			if v, err := strconv.Atoi(value); err == nil {
				c.Frequency = v
			} else {
				return nil, formatError(path, "invalid Frequency value: "+value)
			}
		case "Preset":
			c.Preset = value
		case "Protocol":
			c.Protocol = value
		case "Key":
			c.Key = value
		case "RAW_Data":
			// Long captures spread RAW_Data over several lines; all of
			// them belong to the same pulse sequence.
			for _, token := range strings.Fields(value) {
				if v, err := strconv.Atoi(token); err == nil {
					c.RawData = append(c.RawData, v)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	c.Pulses = processRawData(c.RawData)

	if len(c.RawData) == 0 && c.Key == "" {
		return nil, formatError(path, "no valid signal data found in file")
	}

	return c, nil
}

func formatError(path, msg string) error {
	return errors.Newf("%s: %s", path, msg).
		Category(errors.CategoryFileParsing).
		Context("path", path).
		Build()
}

// processRawData converts signed timing values to pulse duration
// magnitudes. The sign only carries polarity, which later stages derive
// from sample order, and zero durations are never meaningful.
func processRawData(rawData []int) []int {
	if len(rawData) == 0 {
		return nil
	}
	pulses := make([]int, 0, len(rawData))
	for _, v := range rawData {
		if v < 0 {
			v = -v
		}
		if v > 0 {
			pulses = append(pulses, v)
		}
	}
	return pulses
}

// Stats summarizes the timing content of a capture.
type Stats struct {
	TotalPulses int
	MinPulse    int
	MaxPulse    int
	AvgPulse    float64
	Frequency   int
	Protocol    string
	DurationMs  float64
}

// SignalStats computes basic statistics over the capture's pulse train.
// The zero Stats value is returned for key-only captures.
func SignalStats(c *Capture) Stats {
	if len(c.Pulses) == 0 {
		return Stats{}
	}

	stats := Stats{
		TotalPulses: len(c.Pulses),
		MinPulse:    c.Pulses[0],
		MaxPulse:    c.Pulses[0],
		Frequency:   c.Frequency,
		Protocol:    c.Protocol,
	}
	var total int
	for _, p := range c.Pulses {
		if p < stats.MinPulse {
			stats.MinPulse = p
		}
		if p > stats.MaxPulse {
			stats.MaxPulse = p
		}
		total += p
	}
	stats.AvgPulse = float64(total) / float64(len(c.Pulses))
	stats.DurationMs = float64(total) / 1000
	return stats
}

// RawSignal renders the pulse train as polarity-alternating (duration,
// level) pairs starting at level 1. This derivation is for time-domain
// rendering only; decoding uses magnitude-thresholded levels instead.
func RawSignal(c *Capture) []LevelSample {
	if len(c.Pulses) == 0 {
		return nil
	}
	signal := make([]LevelSample, len(c.Pulses))
	level := 1
	for i, duration := range c.Pulses {
		signal[i] = LevelSample{Duration: duration, Level: level}
		level = 1 - level
	}
	return signal
}
