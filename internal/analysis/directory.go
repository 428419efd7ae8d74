package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/errors"
	"github.com/subghzlab/subscan-go/internal/logging"
	"github.com/subghzlab/subscan-go/internal/observability"
	"github.com/subghzlab/subscan-go/internal/observation"
)

const captureExtension = ".sub"

// DirectoryAnalysis analyzes every capture file under the input directory
// and prints a per-file report followed by a summary. A file that fails to
// parse is reported and skipped; it does not abort the run.
func DirectoryAnalysis(ctx context.Context, settings *conf.Settings, metrics *observability.Metrics) error {
	files, err := collectCaptureFiles(settings.Input.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No %s files found in %s\n", captureExtension, settings.Input.Path)
		return nil
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	logger := logging.ForComponent("analysis")
	runID := observation.NewRunID()

	type outcome struct {
		index  int
		result *Result
		err    error
	}

	numWorkers := min(runtime.NumCPU(), 8)
	jobs := make(chan int)
	outcomes := make([]outcome, len(files))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := analyzeCapture(settings, runID, files[i])
				outcomes[i] = outcome{index: i, result: result, err: err}
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	var analyzed, failed int
	protocolCounts := make(map[string]int)
	typeCounts := make(map[string]int)

	for _, o := range outcomes {
		if o.result == nil && o.err == nil {
			continue // job never dispatched
		}
		if o.err != nil {
			failed++
			metrics.RecordFailure()
			logger.Error("capture analysis failed", "path", files[o.index], "error", o.err)
			fmt.Printf("=== Analyzing %s ===\n\nerror: %v\n\n", files[o.index], o.err)
			continue
		}

		analyzed++
		recordMetrics(metrics, o.result)
		protocolCounts[o.result.Note.Protocol]++
		typeCounts[o.result.Note.SignalType]++

		fmt.Print(renderReport(o.result))
		fmt.Println()

		if err := writeOutputs(settings, store, &o.result.Note); err != nil {
			logger.Error("failed to write analysis record", "path", files[o.index], "error", err)
		}
	}

	fmt.Print(renderRunSummary(analyzed, failed, protocolCounts, typeCounts))
	return nil
}

// collectCaptureFiles returns the capture files directly under dir, sorted
// by name for reproducible report order.
func collectCaptureFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(dir).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.Newf("path %s is not a directory", dir).
			Category(errors.CategoryValidation).
			Build()
	}

	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(dir).
			Build()
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), captureExtension) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// renderRunSummary formats the closing summary of a directory run.
func renderRunSummary(analyzed, failed int, protocolCounts, typeCounts map[string]int) string {
	var sb strings.Builder

	sb.WriteString("=== Run Summary ===\n")
	fmt.Fprintf(&sb, "Analyzed: %d, Failed: %d\n", analyzed, failed)

	if len(protocolCounts) > 0 {
		sb.WriteString("Protocols:\n")
		for _, name := range sortedKeys(protocolCounts) {
			fmt.Fprintf(&sb, "  %s: %d\n", name, protocolCounts[name])
		}
	}
	if len(typeCounts) > 0 {
		sb.WriteString("Signal Types:\n")
		for _, name := range sortedKeys(typeCounts) {
			fmt.Fprintf(&sb, "  %s: %d\n", name, typeCounts[name])
		}
	}

	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
