package media

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"

func newTestStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestDerivativePathSharding(t *testing.T) {
	store := newTestStore(t)

	relPath, err := store.DerivativePath(testHash, SizeHotPreview)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("ab", "cd", testHash+"_hotpreview.jpg"), relPath)
}

func TestDerivativePathRejectsBadHash(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DerivativePath("ab", SizeSmall)
	assert.Error(t, err)

	_, err = store.DerivativePath("../../etc/passwd", SizeSmall)
	assert.Error(t, err)

	_, err = store.DerivativePath("ABCDEF0123", SizeSmall)
	assert.Error(t, err)
}

func TestPutGetDeleteRoundTrip(t *testing.T) {
	store := newTestStore(t)
	payload := []byte("jpeg bytes go here")

	relPath, err := store.PutDerivative(testHash, SizeMedium, bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Contains(t, relPath, testHash)

	reader, info, err := store.GetDerivative(testHash, SizeMedium)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, int64(len(payload)), info.Size())

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, store.DeleteDerivative(testHash, SizeMedium))
	_, _, err = store.GetDerivative(testHash, SizeMedium)
	assert.Error(t, err)

	// deleting a missing derivative is not an error
	assert.NoError(t, store.DeleteDerivative(testHash, SizeMedium))
}

func TestPutLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.PutDerivative(testHash, SizeSmall, bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	var leftovers []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Base(path) != testHash+"_small.jpg" {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
