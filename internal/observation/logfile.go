package observation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/errors"
)

// LogNoteToFile appends the note as a one-line entry to the results log
// configured in Output.Log.Path.
func LogNoteToFile(settings *conf.Settings, note *Note) error {
	path := settings.Output.Log.Path

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Category(errors.CategoryFileIO).
				Context("path", dir).
				Build()
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}
	defer file.Close()

	line := fmt.Sprintf("%s %s %s protocol=%s (%.2f) type=%s (%.2f) bits=%d hex=%s\n",
		note.Date, note.Time, note.InputFile,
		note.Protocol, note.ProtocolScore,
		note.SignalType, note.SignalScore,
		note.BitCount, note.HexData)

	if _, err := file.WriteString(line); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}

	return nil
}
