package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity record
func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

// ListByProject returns a project's activities newest first
func (r *GormActivityRepository) ListByProject(projectID uint64, offset, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity

	query := r.db.Model(&models.Activity{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order("created_at DESC").
		Scopes(database.Paginate(utils.PaginationParams{Offset: offset, Limit: limit})).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}
