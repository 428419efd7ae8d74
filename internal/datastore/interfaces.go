// interfaces.go: interface and shared GORM operations for the analysis datastore
package datastore

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/subghzlab/subscan-go/internal/conf"
	"github.com/subghzlab/subscan-go/internal/errors"
	"github.com/subghzlab/subscan-go/internal/observation"
)

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	Save(note *observation.Note) error
	Get(id string) (observation.Note, error)
	Delete(id string) error
	GetAllNotes() ([]observation.Note, error)
	GetNotesByRun(runID string) ([]observation.Note, error)
	Close() error
}

// DataStore implements the shared GORM operations of Interface.
type DataStore struct {
	DB *gorm.DB
}

// New returns a datastore for the enabled output backend, or nil when no
// database output is configured.
func New(settings *conf.Settings) Interface {
	if settings.Output.SQLite.Enabled {
		return &SQLiteStore{Settings: settings}
	}
	return nil
}

// Save inserts a new analysis record.
func (ds *DataStore) Save(note *observation.Note) error {
	if ds.DB == nil {
		return errors.NewStd("database connection is not initialized")
	}

	if err := ds.DB.Create(note).Error; err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "save_note").
			Build()
	}
	return nil
}

// Get retrieves a record by its numeric ID.
func (ds *DataStore) Get(id string) (observation.Note, error) {
	noteID, err := strconv.Atoi(id)
	if err != nil {
		return observation.Note{}, errors.New(err).
			Category(errors.CategoryValidation).
			Context("id", id).
			Build()
	}

	var note observation.Note
	if err := ds.DB.First(&note, noteID).Error; err != nil {
		return observation.Note{}, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "get_note").
			Context("id", id).
			Build()
	}
	return note, nil
}

// Delete removes a record by its numeric ID.
func (ds *DataStore) Delete(id string) error {
	noteID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryValidation).
			Context("id", id).
			Build()
	}

	if err := ds.DB.Delete(&observation.Note{}, noteID).Error; err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "delete_note").
			Context("id", id).
			Build()
	}
	return nil
}

// GetAllNotes retrieves all analysis records.
func (ds *DataStore) GetAllNotes() ([]observation.Note, error) {
	var notes []observation.Note
	if result := ds.DB.Find(&notes); result.Error != nil {
		return nil, errors.New(result.Error).
			Category(errors.CategoryDatabase).
			Context("operation", "get_all_notes").
			Build()
	}
	return notes, nil
}

// GetNotesByRun retrieves the records of a single analysis run.
func (ds *DataStore) GetNotesByRun(runID string) ([]observation.Note, error) {
	var notes []observation.Note
	if result := ds.DB.Where("run_id = ?", runID).Find(&notes); result.Error != nil {
		return nil, errors.New(result.Error).
			Category(errors.CategoryDatabase).
			Context("operation", "get_notes_by_run").
			Context("run_id", runID).
			Build()
	}
	return notes, nil
}

// performAutoMigration migrates the schema for the analysis record model.
func performAutoMigration(db *gorm.DB) error {
	if err := db.AutoMigrate(&observation.Note{}); err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migrate").
			Build()
	}
	return nil
}
