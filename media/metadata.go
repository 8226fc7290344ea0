package media

import (
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// val string might have null chars or quotes at the end
	val := strings.Trim(tag.String(), "\"\x00 ")
	if val == "" {
		return nil
	}
	return &val
}

// readOrientation returns the EXIF orientation value (1-8), or 1 when the
// tag is absent or unreadable.
func readOrientation(exifData *exif.Exif) int {
	if exifData == nil {
		return 1
	}
	tag, err := exifData.Get(exif.Orientation)
	if err != nil || tag == nil {
		return 1
	}
	val, err := tag.Int(0)
	if err != nil || val < 1 || val > 8 {
		return 1
	}
	return val
}

// orientationSwapsDimensions reports whether the EXIF orientation rotates the
// stored pixel grid by 90 or 270 degrees, which swaps reported width/height.
func orientationSwapsDimensions(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}

// correctedDimensions maps raw decoded dimensions to display dimensions for
// the given EXIF orientation.
func correctedDimensions(width, height, orientation int) (int, int) {
	if orientationSwapsDimensions(orientation) {
		return height, width
	}
	return width, height
}

// ExtractMetadata reads dimensions, capture time, GPS position and camera
// identity from a master file. Extraction failures are non-fatal: a partial
// (or empty) Metadata is returned rather than an error, so a corrupt EXIF
// block never fails the surrounding group.
func ExtractMetadata(filePath string) (*Metadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	config, _, decodeErr := image.DecodeConfig(file)

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek file %s: %w", filePath, err)
	}

	exifData, exifErr := exif.Decode(file)
	if exifErr != nil {
		// not necessarily a fatal error, file might just lack EXIF data
		log.Printf("metadata: No EXIF data found or error decoding EXIF for %s: %v", filePath, exifErr)
		exifData = nil
	}

	meta := &Metadata{}

	if decodeErr == nil {
		w, h := correctedDimensions(config.Width, config.Height, readOrientation(exifData))
		meta.Width = &w
		meta.Height = &h
	} else {
		log.Printf("metadata: Warning - Could not decode config for dimensions of %s: %v", filePath, decodeErr)
	}

	if exifData == nil {
		return meta, nil
	}

	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	dt, err := exifData.DateTime()
	if err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}

	// LatLong resolves degrees/minutes/seconds plus hemisphere refs to signed
	// decimals; any missing sub-field yields an error and we record no GPS at
	// all rather than a partial coordinate.
	lat, long, err := exifData.LatLong()
	if err == nil {
		meta.GPSLatitude = &lat
		meta.GPSLongitude = &long
	}

	return meta, nil
}
