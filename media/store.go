package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const derivativeFileExtension = ".jpg"

// Store defines the interface for saving, retrieving, and deleting photo
// derivative renditions, keyed by identity hash and size name.
type Store interface {
	// PutDerivative stores data for one rendition and returns the relative
	// path used. A partially written derivative is never visible to readers.
	PutDerivative(identityHash string, size SizeName, data io.Reader) (string, error)
	// GetDerivative retrieves a reader for a stored rendition
	GetDerivative(identityHash string, size SizeName) (io.ReadCloser, os.FileInfo, error)
	// DeleteDerivative removes a stored rendition; deleting a missing one is not an error
	DeleteDerivative(identityHash string, size SizeName) error
	// DerivativePath returns the relative storage path for a rendition
	DerivativePath(identityHash string, size SizeName) (string, error)
}

// LocalStorage implements the Store interface using the local filesystem.
// Files are sharded into two-level hex-prefix directories
// (ab/cd/<identity_hash>_<size>.jpg) to keep per-directory counts bounded.
type LocalStorage struct {
	basePath string // absolute path to the derivatives root
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// validateHash rejects identity hashes that could escape the storage tree.
// Hashes are lowercase hex, so anything else is a caller bug.
func validateHash(identityHash string) error {
	if len(identityHash) < 4 {
		return fmt.Errorf("identity hash '%s' too short", identityHash)
	}
	for _, c := range identityHash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("identity hash '%s' is not lowercase hex", identityHash)
		}
	}
	return nil
}

// DerivativePath returns the sharded relative path for a rendition
func (ls *LocalStorage) DerivativePath(identityHash string, size SizeName) (string, error) {
	if err := validateHash(identityHash); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s%s", identityHash, size, derivativeFileExtension)
	return filepath.Join(identityHash[0:2], identityHash[2:4], filename), nil
}

func (ls *LocalStorage) fullPath(identityHash string, size SizeName) (string, error) {
	relPath, err := ls.DerivativePath(identityHash, size)
	if err != nil {
		return "", err
	}
	return filepath.Join(ls.basePath, relPath), nil
}

// PutDerivative writes the rendition to a temp file first and renames it into
// place, so GetDerivative never observes a half-written file.
func (ls *LocalStorage) PutDerivative(identityHash string, size SizeName, data io.Reader) (string, error) {
	fullSavePath, err := ls.fullPath(identityHash, size)
	if err != nil {
		return "", err
	}

	targetDir := filepath.Dir(fullSavePath)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create shard directory '%s': %w", targetDir, err)
	}

	tmpFile, err := os.CreateTemp(targetDir, "put-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in '%s': %w", targetDir, err)
	}

	if _, err := io.Copy(tmpFile, data); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write derivative data to '%s': %w", fullSavePath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to close temp file for '%s': %w", fullSavePath, err)
	}

	if err := os.Rename(tmpFile.Name(), fullSavePath); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to move derivative into place at '%s': %w", fullSavePath, err)
	}

	relPath, _ := ls.DerivativePath(identityHash, size)
	return filepath.ToSlash(relPath), nil
}

func (ls *LocalStorage) GetDerivative(identityHash string, size SizeName) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.fullPath(identityHash, size)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("derivative %s/%s not found: %w", identityHash, size, err)
		}
		return nil, nil, fmt.Errorf("failed to open derivative %s/%s: %w", identityHash, size, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat derivative %s/%s: %w", identityHash, size, err)
	}

	return file, info, nil
}

// DeleteDerivative removes a rendition file
func (ls *LocalStorage) DeleteDerivative(identityHash string, size SizeName) error {
	fullPath, err := ls.fullPath(identityHash, size)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete derivative %s/%s: %w", identityHash, size, err)
	}
	return nil
}
