package media

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var jpegExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".jpe": true,
}

// common camera RAW container formats; none of these are decodable here,
// they ride along with a JPEG companion
var rawExtensions = map[string]string{
	".cr2": "cr2", ".cr3": "cr3", ".nef": "nef", ".arw": "arw",
	".dng": "dng", ".orf": "orf", ".raf": "raf", ".rw2": "rw2",
	".pef": "pef", ".srw": "srw", ".x3f": "x3f",
}

var otherRasterExtensions = map[string]string{
	".png": "png", ".gif": "gif", ".bmp": "bmp",
	".tif": "tiff", ".tiff": "tiff", ".webp": "webp",
}

// ClassifyFile resolves a filename into its FileKind. Matching is
// case-insensitive on the extension.
func ClassifyFile(filename string) FileKind {
	ext := strings.ToLower(filepath.Ext(filename))
	if jpegExtensions[ext] {
		return FileKind{Class: ClassJPEG, Format: "jpeg"}
	}
	if format, ok := rawExtensions[ext]; ok {
		return FileKind{Class: ClassRaw, Format: format}
	}
	if format, ok := otherRasterExtensions[ext]; ok {
		return FileKind{Class: ClassOther, Format: format}
	}
	return FileKind{Class: ClassUnsupported, Format: strings.TrimPrefix(ext, ".")}
}

// IsImportable checks if the filename belongs to any recognized source category
func IsImportable(filename string) bool {
	return ClassifyFile(filename).Class != ClassUnsupported
}
