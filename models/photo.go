package models

// Photo represents a deduplicated visual identity. The identity hash is
// computed from the embedded preview bytes and never changes; new source
// files that resolve to the same hash attach additional ImageFile rows
// instead of creating a second Photo.
type Photo struct {
	IdentityHash   string `gorm:"primaryKey" json:"identity_hash"` // hex SHA-256 of the embedded preview
	PerceptualHash string `gorm:"index;not null" json:"perceptual_hash"`

	Width  int `gorm:"not null" json:"width"`
	Height int `gorm:"not null" json:"height"`

	TakenAt      *int64   `gorm:"index" json:"taken_at,omitempty"` // Nullable, Unix timestamp
	GPSLatitude  *float64 `gorm:"" json:"gps_latitude,omitempty"`  // Nullable, signed decimal degrees
	GPSLongitude *float64 `gorm:"" json:"gps_longitude,omitempty"` // Nullable, signed decimal degrees
	CameraMake   *string  `gorm:"" json:"camera_make,omitempty"`   // Nullable
	CameraModel  *string  `gorm:"" json:"camera_model,omitempty"`  // Nullable

	// EmbeddedPreview holds the ~150x150 rendition the identity hash was
	// computed from. Stored inline so thumbnail browsing needs no blob store
	// round-trip.
	EmbeddedPreview []byte `gorm:"" json:"-"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp

	// Relationships
	Files []ImageFile `gorm:"foreignKey:IdentityHash;references:IdentityHash" json:"files,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}
