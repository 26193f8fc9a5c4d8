package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// GormSupportRepository is a GORM implementation of SupportRepository
type GormSupportRepository struct {
	db *gorm.DB
}

// NewSupportRepository creates a new SupportRepository
func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &GormSupportRepository{db: db}
}

// Create creates a new support request
func (r *GormSupportRepository) Create(request *models.SupportRequest) error {
	return r.db.Create(request).Error
}

// FindByID finds a support request by ID with user relations preloaded
func (r *GormSupportRepository) FindByID(id uint64) (*models.SupportRequest, error) {
	var request models.SupportRequest
	if err := r.db.Preload("User").Preload("ResolvedBy").
		First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns all support requests, newest first
func (r *GormSupportRepository) List() ([]models.SupportRequest, error) {
	var requests []models.SupportRequest
	if err := r.db.Preload("User").Preload("ResolvedBy").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListByUserID returns one user's support requests, newest first
func (r *GormSupportRepository) ListByUserID(userID uint64) ([]models.SupportRequest, error) {
	var requests []models.SupportRequest
	if err := r.db.Preload("User").Preload("ResolvedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Update saves changes to a support request
func (r *GormSupportRepository) Update(request *models.SupportRequest) error {
	return r.db.Save(request).Error
}

// Delete removes a support request
func (r *GormSupportRepository) Delete(id uint64) error {
	return r.db.Delete(&models.SupportRequest{}, id).Error
}
