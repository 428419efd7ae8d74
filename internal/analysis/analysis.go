// Package analysis wires the capture pipeline together: parsing, decoding,
// protocol identification, classification and result output.
package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/classifier"
	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/datastore"
	"github.com/subghzlab/subscan-go/internal/decoder"
	"github.com/subghzlab/subscan-go/internal/observability"
	"github.com/subghzlab/subscan-go/internal/observation"
	"github.com/subghzlab/subscan-go/internal/protocol"
)

// Result bundles everything produced by analyzing one capture file.
type Result struct {
	Path           string
	Capture        *capture.Capture
	Signal         *decoder.Signal
	Classification classifier.Classification
	Note           observation.Note
	Elapsed        time.Duration
}

// decoderOptions maps decoder settings to pipeline options.
func decoderOptions(settings *conf.Settings) decoder.Options {
	return decoder.Options{
		Encoding:   settings.Decoder.Encoding,
		Threshold:  settings.Decoder.Threshold,
		DataLength: settings.Decoder.DataLength,
	}
}

// analyzeCapture runs the full pipeline on a single capture file.
func analyzeCapture(settings *conf.Settings, runID, path string) (*Result, error) {
	start := time.Now()

	c, err := capture.ParseFile(path)
	if err != nil {
		return nil, err
	}

	opts := decoderOptions(settings)
	sig := decoder.Decode(c, opts)
	classification := classifier.Classify(c, opts)

	elapsed := time.Since(start)
	note := observation.New(settings, runID, path, c, sig, &classification, elapsed)

	return &Result{
		Path:           path,
		Capture:        c,
		Signal:         sig,
		Classification: classification,
		Note:           note,
		Elapsed:        elapsed,
	}, nil
}

// writeOutputs persists an analysis record to the enabled output backends.
func writeOutputs(settings *conf.Settings, store datastore.Interface, note *observation.Note) error {
	if settings.Output.Log.Enabled {
		if err := observation.LogNoteToFile(settings, note); err != nil {
			return err
		}
	}
	if store != nil {
		if err := store.Save(note); err != nil {
			return err
		}
	}
	return nil
}

// openStore opens the configured datastore, or returns nil when no
// database output is enabled.
func openStore(settings *conf.Settings) (datastore.Interface, error) {
	store := datastore.New(settings)
	if store == nil {
		return nil, nil
	}
	if err := store.Open(); err != nil {
		return nil, err
	}
	return store, nil
}

func recordMetrics(metrics *observability.Metrics, result *Result) {
	metrics.RecordAnalysis(
		result.Classification.ProtocolInfo.Protocol,
		result.Classification.SignalType,
		result.Elapsed,
	)
}

// renderReport formats the full analysis report for one capture file.
func renderReport(result *Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== Analyzing %s ===\n\n", result.Path)

	stats := capture.SignalStats(result.Capture)
	sb.WriteString("Signal Statistics:\n")
	fmt.Fprintf(&sb, "  Frequency: %d Hz\n", stats.Frequency)
	fmt.Fprintf(&sb, "  Protocol: %s\n", stats.Protocol)
	fmt.Fprintf(&sb, "  Total Pulses: %d\n", stats.TotalPulses)
	if stats.TotalPulses > 0 {
		fmt.Fprintf(&sb, "  Pulse Range: %d - %d us\n", stats.MinPulse, stats.MaxPulse)
		fmt.Fprintf(&sb, "  Average Pulse: %.1f us\n", stats.AvgPulse)
		fmt.Fprintf(&sb, "  Duration: %.1f ms\n", stats.DurationMs)
	}

	sig := result.Signal
	fmt.Fprintf(&sb, "\nDecoded Signal (%s):\n", sig.Encoding)
	fmt.Fprintf(&sb, "  Bits: %d\n", len(sig.Bits))
	fmt.Fprintf(&sb, "  Hex: %s\n", sig.HexData)
	if sig.PreambleFound {
		fmt.Fprintf(&sb, "  Preamble found at bit %d, %d data bits extracted\n",
			sig.PreambleIndex, len(sig.DataBits))
	}

	matches := result.Classification.ProtocolInfo.Matches
	if len(matches) > 0 {
		sb.WriteString("\nProtocol Candidates:\n")
		for _, m := range matches {
			fmt.Fprintf(&sb, "  %s (%.0f%%) - %s\n", m.Protocol, m.Confidence*100, m.Description)
			for _, reason := range m.Reasons {
				fmt.Fprintf(&sb, "    * %s\n", reason)
			}
		}
	}

	if best := result.Classification.ProtocolInfo.Protocol; best != protocol.Unknown {
		fields := protocol.ExtractFields(best, sig.Bits)
		if len(fields.Values) > 0 {
			sb.WriteString("\nExtracted Fields:\n")
			names := make([]string, 0, len(fields.Values))
			for name := range fields.Values {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(&sb, "  %s: %s\n", name, fields.Values[name])
			}
			if fields.Interpretation != "" {
				fmt.Fprintf(&sb, "  %s\n", fields.Interpretation)
			}
		}
	}

	sb.WriteString("\n")
	sb.WriteString(classifier.Summary(&result.Classification))

	return sb.String()
}
