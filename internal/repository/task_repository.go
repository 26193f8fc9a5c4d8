package repository

import (
	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindProjectTask finds a task by ID scoped to a project, with optional
// preloading
func (r *GormTaskRepository) FindProjectTask(projectID, taskID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Where("project_id = ?", projectID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves a project's tasks ordered by sort_order ascending then
// creation time descending. The mixed tie-break direction is the documented
// board contract.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Where("project_id = ?", filter.ProjectID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	if err := query.
		Preload("AssignedTo").
		Preload("CreatedBy").
		Order("sort_order ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete hard deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// NextSortOrder returns max(sort_order)+1 within the (project, status)
// partition, or 0 when the partition is empty
func (r *GormTaskRepository) NextSortOrder(projectID uint64, status models.TaskStatus) (int, error) {
	var max *int
	err := r.db.Model(&models.Task{}).
		Select("MAX(sort_order)").
		Where("project_id = ? AND status = ?", projectID, status).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// MoveToPartition shifts destination rows and writes the task's new status
// and order in one transaction. The shift excludes the moved task and runs
// before its own order is written, so the insertion point stays free.
func (r *GormTaskRepository) MoveToPartition(task *models.Task, status models.TaskStatus, order *int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if order != nil {
			if err := tx.Model(&models.Task{}).
				Where("project_id = ? AND status = ? AND sort_order >= ? AND id <> ?",
					task.ProjectID, status, *order, task.ID).
				Update("sort_order", gorm.Expr("sort_order + 1")).Error; err != nil {
				return err
			}
			task.SortOrder = *order
		}

		task.Status = status
		return tx.Save(task).Error
	})
}
