// media/types.go
package media

// SizeName identifies one derivative rendition of a photo.
type SizeName string

const (
	SizeHotPreview  SizeName = "hotpreview"  // ~150px embedded preview, also the identity hash input
	SizeColdPreview SizeName = "coldpreview" // medium preview for detail views
	SizeLarge       SizeName = "large"
	SizeMedium      SizeName = "medium"
	SizeSmall       SizeName = "small"
)

// FileClass is the closed set of source file categories. A file's class is
// resolved once at classification time; nothing downstream re-inspects the
// extension.
type FileClass int

const (
	ClassJPEG FileClass = iota
	ClassRaw
	ClassOther
	ClassUnsupported
)

// FileKind tags a source file with its class and normalized format name
// (e.g. "jpeg", "cr2", "png").
type FileKind struct {
	Class  FileClass
	Format string
}

// Metadata contains EXIF and dimension information extracted from a master
// file. Width and height are reported after orientation correction.
type Metadata struct {
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	TakenAt      *int64   `json:"taken_at,omitempty"`
	GPSLatitude  *float64 `json:"gps_latitude,omitempty"`
	GPSLongitude *float64 `json:"gps_longitude,omitempty"`
	CameraMake   *string  `json:"camera_make,omitempty"`
	CameraModel  *string  `json:"camera_model,omitempty"`
}
