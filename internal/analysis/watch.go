package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/errors"
	"github.com/subghzlab/subscan-go/internal/logging"
	"github.com/subghzlab/subscan-go/internal/observability"
	"github.com/subghzlab/subscan-go/internal/observation"
)

// settleDelay is how long a file must stay quiet after its last write
// event before it is analyzed. Capture files are written in one pass, so
// a short delay is enough to avoid reading partial files.
const settleDelay = 500 * time.Millisecond

// WatchAnalysis watches the input directory and analyzes capture files as
// they appear. It blocks until the context is canceled.
func WatchAnalysis(ctx context.Context, settings *conf.Settings, metrics *observability.Metrics) error {
	if _, err := collectCaptureFiles(settings.Input.Path); err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "create_watcher").
			Build()
	}
	defer watcher.Close()

	if err := watcher.Add(settings.Input.Path); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(settings.Input.Path).
			Build()
	}

	logger := logging.ForComponent("watch")

	if settings.Watch.MetricsAddr != "" {
		startMetricsServer(ctx, settings.Watch.MetricsAddr, metrics, logger)
	}

	runID := observation.NewRunID()
	fmt.Printf("Watching %s for new capture files\n", settings.Input.Path)

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	process := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		result, err := analyzeCapture(settings, runID, path)
		if err != nil {
			metrics.RecordFailure()
			logger.Error("capture analysis failed", "path", path, "error", err)
			return
		}

		recordMetrics(metrics, result)
		fmt.Print(renderReport(result))
		fmt.Println()

		if err := writeOutputs(settings, store, &result.Note); err != nil {
			logger.Error("failed to write analysis record", "path", path, "error", err)
		}
	}

	defer func() {
		mu.Lock()
		for _, timer := range pending {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), captureExtension) {
				continue
			}

			path := event.Name
			mu.Lock()
			if timer, exists := pending[path]; exists {
				timer.Reset(settleDelay)
			} else {
				pending[path] = time.AfterFunc(settleDelay, func() { process(path) })
			}
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// startMetricsServer serves the Prometheus endpoint until ctx is canceled.
func startMetricsServer(ctx context.Context, addr string, metrics *observability.Metrics, logger *slog.Logger) {
	mux := http.NewServeMux()
	metrics.RegisterHandlers(mux)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
