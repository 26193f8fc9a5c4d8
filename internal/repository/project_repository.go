package repository

import (
	"errors"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// ErrLastProjectAdmin is returned when a membership change would leave the
// project without any admin.
var ErrLastProjectAdmin = errors.New("project repository: project must retain at least one admin")

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByKey finds a project by its normalized key
func (r *GormProjectRepository) FindByKey(key string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("project_key = ?", key).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update saves changes to a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes the project and all dependent rows in one transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectRole{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a membership row
func (r *GormProjectRepository) AddMember(member *models.ProjectRole) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific membership
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectRole, error) {
	var member models.ProjectRole
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists memberships for a project, sorted by role then join time
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectRole, error) {
	var members []models.ProjectRole
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("role ASC, created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembersByUserID lists memberships across projects for a user
func (r *GormProjectRepository) ListMembersByUserID(userID uint64) ([]models.ProjectRole, error) {
	var memberships []models.ProjectRole
	if err := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// countAdmins counts members holding the project admin role. Callers pass
// their transaction so the count stays consistent with the guarded write.
func countAdmins(tx *gorm.DB, projectID uint64) (int64, error) {
	var count int64
	err := tx.Model(&models.ProjectRole{}).
		Where("project_id = ? AND role = ?", projectID, models.ProjectRoleAdmin).
		Count(&count).Error
	return count, err
}

// UpdateMemberRole changes a member's role, refusing to demote the sole
// remaining admin. Count and write share a transaction so two concurrent
// demotions cannot both pass the check.
func (r *GormProjectRepository) UpdateMemberRole(projectID, userID uint64, role models.ProjectRoleName) (*models.ProjectRole, error) {
	var member models.ProjectRole

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&member).Error; err != nil {
			return err
		}

		if member.Role == models.ProjectRoleAdmin && role != models.ProjectRoleAdmin {
			admins, err := countAdmins(tx, projectID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastProjectAdmin
			}
		}

		member.Role = role
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// RemoveMember deletes a membership, refusing to remove the sole remaining
// admin. Count and delete share a transaction.
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var member models.ProjectRole
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&member).Error; err != nil {
			return err
		}

		if member.Role == models.ProjectRoleAdmin {
			admins, err := countAdmins(tx, projectID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastProjectAdmin
			}
		}

		return tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectRole{}).Error
	})
}
