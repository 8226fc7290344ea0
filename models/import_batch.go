package models

// ImportError is one entry in a batch's bounded error log.
type ImportError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ImportBatch is one run of the import pipeline over a source directory.
// Counters are flushed periodically while the batch runs; once the status
// reaches a terminal state the record is immutable.
type ImportBatch struct {
	ID         string `gorm:"primaryKey" json:"id"` // UUID
	SourceRoot string `gorm:"not null" json:"source_root"`

	Status string `gorm:"not null;default:pending" json:"status"`

	FilesFound            int64 `gorm:"not null;default:0" json:"files_found"`
	PhotosCreated         int64 `gorm:"not null;default:0" json:"photos_created"`
	PartialMerges         int64 `gorm:"not null;default:0" json:"partial_merges"`
	DuplicatesSkipped     int64 `gorm:"not null;default:0" json:"duplicates_skipped"`
	RawWithoutJpegSkipped int64 `gorm:"not null;default:0" json:"raw_without_jpeg_skipped"`
	Errors                int64 `gorm:"not null;default:0" json:"errors"`

	// ErrorLog is capped (default 100 entries); Errors keeps the true count.
	ErrorLog []ImportError `gorm:"serializer:json" json:"error_log,omitempty"`

	// ErrorMessage is set only when the batch itself fails (root-level fault).
	ErrorMessage *string `gorm:"" json:"error_message,omitempty"`

	StartedAt  *int64 `gorm:"" json:"started_at,omitempty"`  // Nullable, Unix timestamp
	FinishedAt *int64 `gorm:"" json:"finished_at,omitempty"` // Nullable, Unix timestamp
	CreatedAt  int64  `gorm:"not null" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (ImportBatch) TableName() string {
	return "import_batches"
}
