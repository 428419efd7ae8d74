package analysis

import (
	"fmt"
	"os"

	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/errors"
	"github.com/subghzlab/subscan-go/internal/logging"
	"github.com/subghzlab/subscan-go/internal/observation"
)

// FileAnalysis analyzes a single capture file and prints the results.
func FileAnalysis(settings *conf.Settings) error {
	if err := validateCaptureFile(settings.Input.Path); err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	result, err := analyzeCapture(settings, observation.NewRunID(), settings.Input.Path)
	if err != nil {
		return err
	}

	fmt.Print(renderReport(result))

	if err := writeOutputs(settings, store, &result.Note); err != nil {
		return err
	}

	logging.ForComponent("analysis").Debug("file analyzed",
		"path", settings.Input.Path,
		"protocol", result.Note.Protocol,
		"signal_type", result.Note.SignalType,
		"elapsed", result.Elapsed)

	return nil
}

// validateCaptureFile checks that the input path is a readable, non-empty file.
func validateCaptureFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryNotFound).
			FileContext(path).
			Build()
	}
	if info.IsDir() {
		return errors.Newf("path %s is a directory, not a capture file", path).
			Category(errors.CategoryValidation).
			Build()
	}
	if info.Size() == 0 {
		return errors.Newf("file %s is empty", path).
			Category(errors.CategoryFileParsing).
			Build()
	}
	return nil
}
