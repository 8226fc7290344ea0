package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		wantClass  FileClass
		wantFormat string
	}{
		{"lowercase jpg", "IMG_0001.jpg", ClassJPEG, "jpeg"},
		{"uppercase jpeg", "IMG_0001.JPEG", ClassJPEG, "jpeg"},
		{"canon raw", "IMG_0001.CR2", ClassRaw, "cr2"},
		{"nikon raw", "dsc_0042.nef", ClassRaw, "nef"},
		{"adobe dng", "scan.DNG", ClassRaw, "dng"},
		{"png", "chart.png", ClassOther, "png"},
		{"tiff long ext", "scan.TIFF", ClassOther, "tiff"},
		{"tiff short ext", "scan.tif", ClassOther, "tiff"},
		{"webp", "pic.webp", ClassOther, "webp"},
		{"text file", "notes.txt", ClassUnsupported, "txt"},
		{"no extension", "Makefile", ClassUnsupported, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := ClassifyFile(tt.filename)
			assert.Equal(t, tt.wantClass, kind.Class)
			assert.Equal(t, tt.wantFormat, kind.Format)
		})
	}
}

func TestIsImportable(t *testing.T) {
	assert.True(t, IsImportable("a.jpg"))
	assert.True(t, IsImportable("a.CR2"))
	assert.True(t, IsImportable("a.png"))
	assert.False(t, IsImportable("a.txt"))
	assert.False(t, IsImportable("a.mp4"))
}
