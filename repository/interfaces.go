package repository

import (
	"github.com/imalink-project/imalink-sub001/models"
)

// CounterDeltas carries incremental batch counter updates. Deltas are
// accumulated in memory by the orchestrator and applied in one UPDATE to
// bound write pressure on the store.
type CounterDeltas struct {
	FilesFound            int64
	PhotosCreated         int64
	PartialMerges         int64
	DuplicatesSkipped     int64
	RawWithoutJpegSkipped int64
	Errors                int64
}

// IsZero reports whether the delta set would be a no-op update.
func (d CounterDeltas) IsZero() bool {
	return d == CounterDeltas{}
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	GetByHash(identityHash string) (*models.Photo, error)
	Create(photo *models.Photo) error
	ListAll() ([]models.Photo, error)
}

// ImageFileRepositoryInterface defines the methods for image file data operations
type ImageFileRepositoryInterface interface {
	Create(file *models.ImageFile) error
	CreateAll(files []models.ImageFile) error
	ListByHash(identityHash string) ([]models.ImageFile, error)
	ExistsByHashAndFile(identityHash, filename string, fileSize int64) (bool, error)
}

// BatchRepositoryInterface defines the methods for import batch operations
type BatchRepositoryInterface interface {
	Create(batch *models.ImportBatch) error
	GetByID(id string) (*models.ImportBatch, error)
	MarkRunning(id string) error
	ApplyCounterDeltas(id string, deltas CounterDeltas) error
	AppendErrorEntries(id string, entries []models.ImportError, logCap int) error
	MarkCompleted(id string) error
	MarkFailed(id string, failure error) error
}
