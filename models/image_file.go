package models

// ImageFile is one physical source file accepted into the library. Several
// files may share one Photo (a JPEG+RAW pair, or a re-imported copy of the
// same content). Rows are never mutated after creation.
type ImageFile struct {
	ID uint `gorm:"primarykey" json:"id"`

	Filename string `gorm:"not null;index:idx_image_files_identity_name" json:"filename"`
	FileSize int64  `gorm:"not null" json:"file_size"`
	Format   string `gorm:"not null" json:"format"` // derived from the extension, e.g. "jpeg", "cr2", "png"

	IdentityHash  string `gorm:"not null;index:idx_image_files_identity_name" json:"identity_hash"`
	ImportBatchID string `gorm:"not null;index" json:"import_batch_id"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (ImageFile) TableName() string {
	return "image_files"
}
