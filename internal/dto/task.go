package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	ProjectID   uint64              `json:"project_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *UserDTO            `json:"assigned_to"`
	CreatedBy   *UserDTO            `json:"created_by,omitempty"`
	Subtasks    models.SubtaskList  `json:"subtasks"`
	DueDate     *time.Time          `json:"due_date"`
	Tags        models.StringList   `json:"tags"`
	Order       int                 `json:"order"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Subtasks:    task.Subtasks,
		DueDate:     task.DueDate,
		Tags:        task.Tags,
		Order:       task.SortOrder,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if dto.Subtasks == nil {
		dto.Subtasks = models.SubtaskList{}
	}
	if dto.Tags == nil {
		dto.Tags = models.StringList{}
	}

	// Include assignee if preloaded
	if task.AssignedTo != nil {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	// Include creator if preloaded
	if task.CreatedBy.ID != 0 {
		creator := ToUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	return dto
}

// ToTaskDTOs converts a task slice
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
