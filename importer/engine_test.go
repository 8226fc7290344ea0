package importer

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imalink-project/imalink-sub001/media"
)

func scanAndGroup(t *testing.T, root string) []FileGroup {
	t.Helper()
	files, err := ScanSource(root)
	require.NoError(t, err)
	return GroupFiles(files)
}

func TestProcessGroupNewPair(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "IMG_0001.JPG"), 1920, 1080, color.NRGBA{R: 10, G: 40, B: 220, A: 255})
	writeRaw(t, filepath.Join(root, "IMG_0001.CR2"))

	groups := scanAndGroup(t, root)
	require.Len(t, groups, 1)

	outcome := env.Engine.ProcessGroup("batch-1", groups[0])
	require.Equal(t, OutcomeNew, outcome.Kind)
	require.NotNil(t, outcome.Photo)

	photo := outcome.Photo
	assert.Equal(t, 1920, photo.Width)
	assert.Equal(t, 1080, photo.Height)
	assert.NotEmpty(t, photo.PerceptualHash)
	assert.NotEmpty(t, photo.EmbeddedPreview)
	assert.Equal(t, media.IdentityHash(photo.EmbeddedPreview), photo.IdentityHash)

	files, err := env.Files.ListByHash(photo.IdentityHash)
	require.NoError(t, err)
	require.Len(t, files, 2)
	formats := []string{files[0].Format, files[1].Format}
	assert.Contains(t, formats, "jpeg")
	assert.Contains(t, formats, "cr2")

	// full rendition ladder is in the blob store
	for _, size := range []media.SizeName{media.SizeHotPreview, media.SizeColdPreview, media.SizeLarge, media.SizeMedium, media.SizeSmall} {
		reader, _, err := env.Store.GetDerivative(photo.IdentityHash, size)
		require.NoError(t, err, "missing derivative %s", size)
		reader.Close()
	}
}

func TestProcessGroupExactDuplicate(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "a.jpg"), 640, 480, color.NRGBA{R: 77, G: 0, B: 0, A: 255})

	groups := scanAndGroup(t, root)
	require.Len(t, groups, 1)

	first := env.Engine.ProcessGroup("batch-1", groups[0])
	require.Equal(t, OutcomeNew, first.Kind)

	second := env.Engine.ProcessGroup("batch-2", groups[0])
	assert.Equal(t, OutcomeDuplicate, second.Kind)

	files, err := env.Files.ListByHash(first.Photo.IdentityHash)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestProcessGroupPartialDuplicateAppendsRaw(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "IMG_0002.jpg"), 800, 600, color.NRGBA{R: 0, G: 128, B: 9, A: 255})

	groups := scanAndGroup(t, root)
	first := env.Engine.ProcessGroup("batch-1", groups[0])
	require.Equal(t, OutcomeNew, first.Kind)

	// the RAW half shows up later; same JPEG content, so same identity
	writeRaw(t, filepath.Join(root, "IMG_0002.CR2"))
	groups = scanAndGroup(t, root)
	require.Len(t, groups, 1)
	require.Equal(t, GroupPair, groups[0].Kind)

	second := env.Engine.ProcessGroup("batch-2", groups[0])
	require.Equal(t, OutcomePartial, second.Kind)
	require.Len(t, second.Added, 1)
	assert.Equal(t, "cr2", second.Added[0].Format)

	files, err := env.Files.ListByHash(first.Photo.IdentityHash)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	photos, err := env.Photos.ListAll()
	require.NoError(t, err)
	assert.Len(t, photos, 1, "no duplicate photo may be created")
}

func TestProcessGroupRawOnlySkipped(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeRaw(t, filepath.Join(root, "lonely.CR2"))

	groups := scanAndGroup(t, root)
	require.Len(t, groups, 1)
	require.Equal(t, GroupRawOnly, groups[0].Kind)

	outcome := env.Engine.ProcessGroup("batch-1", groups[0])
	assert.Equal(t, OutcomeSkipped, outcome.Kind)
	assert.Equal(t, SkipReasonRawWithoutJpeg, outcome.SkipReason)

	photos, err := env.Photos.ListAll()
	require.NoError(t, err)
	assert.Empty(t, photos, "a RAW must never be promoted to a Photo without a JPEG")
}

func TestProcessGroupCorruptMaster(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.jpg"), []byte("not an image"), 0644))

	groups := scanAndGroup(t, root)
	require.Len(t, groups, 1)

	outcome := env.Engine.ProcessGroup("batch-1", groups[0])
	require.Equal(t, OutcomeError, outcome.Kind)
	require.Error(t, outcome.Err)

	photos, err := env.Photos.ListAll()
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestProcessGroupIdentityIsContentBased(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	// same pixels, different filenames: both render to the same preview, so
	// they collapse to one identity
	writeJPEG(t, filepath.Join(root, "first.jpg"), 500, 400, color.NRGBA{R: 33, G: 66, B: 99, A: 255})
	writeJPEG(t, filepath.Join(root, "second.jpg"), 500, 400, color.NRGBA{R: 33, G: 66, B: 99, A: 255})

	groups := scanAndGroup(t, root)
	require.Len(t, groups, 2)

	first := env.Engine.ProcessGroup("batch-1", groups[0])
	require.Equal(t, OutcomeNew, first.Kind)

	second := env.Engine.ProcessGroup("batch-1", groups[1])
	require.Equal(t, OutcomePartial, second.Kind, "same content under a new name appends a file")

	photos, err := env.Photos.ListAll()
	require.NoError(t, err)
	assert.Len(t, photos, 1)

	files, err := env.Files.ListByHash(first.Photo.IdentityHash)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
