// Package observation turns pipeline results into analysis records that
// can be logged to file or saved to the datastore.
package observation

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/subghzlab/subscan-go/internal/capture"
	"github.com/subghzlab/subscan-go/internal/classifier"
	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/decoder"
)

// Note is a single capture analysis record.
type Note struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      string `gorm:"index"` // analysis run this note belongs to
	SourceNode string
	Date       string `gorm:"index"`
	Time       string
	InputFile  string

	Frequency      int
	ProtocolHint   string // protocol declared in the capture file
	Protocol       string `gorm:"index"` // identified protocol
	ProtocolScore  float64
	SignalType     string `gorm:"index"`
	SignalScore    float64
	Encoding       string
	BitCount       int
	HexData        string
	PreambleFound  bool
	ProcessingTime time.Duration
}

// NewRunID returns an identifier shared by all notes of one analysis run.
func NewRunID() string {
	return uuid.NewString()
}

// New builds a Note from the results of analyzing a single capture.
func New(settings *conf.Settings, runID, path string, c *capture.Capture, sig *decoder.Signal, classification *classifier.Classification, elapsed time.Duration) Note {
	now := time.Now()
	return Note{
		RunID:          runID,
		SourceNode:     settings.Main.Name,
		Date:           now.Format("2006-01-02"),
		Time:           now.Format("15:04:05"),
		InputFile:      filepath.Base(path),
		Frequency:      c.Frequency,
		ProtocolHint:   c.Protocol,
		Protocol:       classification.ProtocolInfo.Protocol,
		ProtocolScore:  classification.ProtocolInfo.Confidence,
		SignalType:     classification.SignalType,
		SignalScore:    classification.Confidence,
		Encoding:       sig.Encoding,
		BitCount:       len(sig.Bits),
		HexData:        sig.HexData,
		PreambleFound:  sig.PreambleFound,
		ProcessingTime: elapsed,
	}
}
