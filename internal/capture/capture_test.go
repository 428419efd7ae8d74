package capture_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/errors"
)

func writeSub(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sub")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const rawCapture = `Filetype: Flipper SubGhz RAW File
Version: 1
Frequency: 433920000
Preset: FuriHalSubGhzPresetOok650Async
Protocol: RAW
RAW_Data: 500 -300 700 -200 0 900
RAW_Data: -400 600
`

func TestParseFileRawCapture(t *testing.T) {
	t.Parallel()

	c, err := capture.ParseFile(writeSub(t, rawCapture))
	require.NoError(t, err)

	assert.Equal(t, "Flipper SubGhz RAW File", c.Filetype)
	assert.Equal(t, 1, c.Version)
	assert.Equal(t, 433920000, c.Frequency)
	assert.Equal(t, "FuriHalSubGhzPresetOok650Async", c.Preset)
	assert.Equal(t, "RAW", c.Protocol)
	// Magnitudes, zeros dropped, multi-line RAW_Data concatenated.
	assert.Equal(t, []int{500, 300, 700, 200, 900, 400, 600}, c.Pulses)
}

func TestParseFileKeyOnlyCapture(t *testing.T) {
	t.Parallel()

	c, err := capture.ParseFile(writeSub(t, `Filetype: Flipper SubGhz Key File
Version: 1
Frequency: 315000000
Protocol: Princeton
Key: 00 00 00 00 00 95 D5 D4
`))
	require.NoError(t, err)

	assert.Equal(t, "Princeton", c.Protocol)
	assert.Equal(t, "00 00 00 00 00 95 D5 D4", c.Key)
	assert.Empty(t, c.Pulses)
}

func TestParseFileMissing(t *testing.T) {
	t.Parallel()

	_, err := capture.ParseFile(filepath.Join(t.TempDir(), "nope.sub"))
	require.Error(t, err)

	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errors.CategoryNotFound, ee.Category)
}

func TestParseFileNoSignalData(t *testing.T) {
	t.Parallel()

	_, err := capture.ParseFile(writeSub(t, "Filetype: Flipper SubGhz RAW File\nFrequency: 433920000\n"))
	require.Error(t, err)

	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errors.CategoryFileParsing, ee.Category)
}

func TestParseFileSkipsGarbledTokens(t *testing.T) {
	t.Parallel()

	c, err := capture.ParseFile(writeSub(t, "RAW_Data: 100 abc -200 1.5 300\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200, 300}, c.Pulses)
}

func TestParseFileBadFrequency(t *testing.T) {
	t.Parallel()

	_, err := capture.ParseFile(writeSub(t, "Frequency: many\nRAW_Data: 100 200\n"))
	assert.Error(t, err)
}

func TestSignalStats(t *testing.T) {
	t.Parallel()

	c := &capture.Capture{Frequency: 433920000, Protocol: "RAW", Pulses: []int{100, 200, 300}}
	stats := capture.SignalStats(c)

	assert.Equal(t, 3, stats.TotalPulses)
	assert.Equal(t, 100, stats.MinPulse)
	assert.Equal(t, 300, stats.MaxPulse)
	assert.InDelta(t, 200.0, stats.AvgPulse, 1e-9)
	assert.InDelta(t, 0.6, stats.DurationMs, 1e-9)
	assert.Equal(t, 433920000, stats.Frequency)
}

func TestSignalStatsEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, capture.Stats{}, capture.SignalStats(&capture.Capture{}))
}

func TestRawSignalAlternatesFromHigh(t *testing.T) {
	t.Parallel()

	c := &capture.Capture{Pulses: []int{10, 20, 30, 40}}
	signal := capture.RawSignal(c)

	require.Len(t, signal, 4)
	assert.Equal(t, capture.LevelSample{Duration: 10, Level: 1}, signal[0])
	assert.Equal(t, capture.LevelSample{Duration: 20, Level: 0}, signal[1])
	assert.Equal(t, capture.LevelSample{Duration: 30, Level: 1}, signal[2])
	assert.Equal(t, capture.LevelSample{Duration: 40, Level: 0}, signal[3])

	assert.Nil(t, capture.RawSignal(&capture.Capture{}))
}
