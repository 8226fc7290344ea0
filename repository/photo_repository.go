package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/imalink-project/imalink-sub001/models"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// GetByHash retrieves a photo by its identity hash
func (r *PhotoRepository) GetByHash(identityHash string) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Where("identity_hash = ?", identityHash).First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by hash %s: %w", identityHash, err)
	}
	return &photo, nil
}

// Create inserts a new photo record. The identity hash is the primary key, so
// inserting a hash that already exists fails with a constraint violation.
func (r *PhotoRepository) Create(photo *models.Photo) error {
	if err := r.DB.Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo %s: %w", photo.IdentityHash, err)
	}
	return nil
}

// ListAll retrieves all photo records
func (r *PhotoRepository) ListAll() ([]models.Photo, error) {
	var photos []models.Photo
	if err := r.DB.Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}
