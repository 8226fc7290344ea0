package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/imalink-project/imalink-sub001/models"
)

// ImageFileRepository handles database operations for ImageFile entities
type ImageFileRepository struct {
	DB *gorm.DB
}

// NewImageFileRepository creates a new instance of ImageFileRepository
func NewImageFileRepository(db *gorm.DB) *ImageFileRepository {
	return &ImageFileRepository{DB: db}
}

// Create inserts a single image file record
func (r *ImageFileRepository) Create(file *models.ImageFile) error {
	if err := r.DB.Create(file).Error; err != nil {
		return fmt.Errorf("failed to create image file %s: %w", file.Filename, err)
	}
	return nil
}

// CreateAll inserts a set of image file records in one statement
func (r *ImageFileRepository) CreateAll(files []models.ImageFile) error {
	if len(files) == 0 {
		return nil
	}
	if err := r.DB.Create(&files).Error; err != nil {
		return fmt.Errorf("failed to create %d image files: %w", len(files), err)
	}
	return nil
}

// ListByHash retrieves all files recorded under one photo identity
func (r *ImageFileRepository) ListByHash(identityHash string) ([]models.ImageFile, error) {
	var files []models.ImageFile
	err := r.DB.Where("identity_hash = ?", identityHash).Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list image files for %s: %w", identityHash, err)
	}
	return files, nil
}

// ExistsByHashAndFile reports whether this exact file (by name and size) is
// already recorded under the given identity.
func (r *ImageFileRepository) ExistsByHashAndFile(identityHash, filename string, fileSize int64) (bool, error) {
	var count int64
	err := r.DB.Model(&models.ImageFile{}).
		Where("identity_hash = ? AND filename = ? AND file_size = ?", identityHash, filename, fileSize).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check image file existence for %s: %w", identityHash, err)
	}
	return count > 0, nil
}
