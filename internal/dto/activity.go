package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// ActivityDTO represents an audit record in API responses
type ActivityDTO struct {
	ID          uint64                    `json:"id"`
	ProjectID   uint64                    `json:"project_id"`
	User        *UserDTO                  `json:"user,omitempty"`
	Action      models.ActivityAction     `json:"action"`
	Description string                    `json:"description"`
	EntityType  models.ActivityEntityType `json:"entity_type"`
	EntityID    *uint64                   `json:"entity_id"`
	Metadata    models.JSONMap            `json:"metadata"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ToActivityDTO converts an Activity model to ActivityDTO
func ToActivityDTO(activity models.Activity) ActivityDTO {
	dto := ActivityDTO{
		ID:          activity.ID,
		ProjectID:   activity.ProjectID,
		Action:      activity.Action,
		Description: activity.Description,
		EntityType:  activity.EntityType,
		EntityID:    activity.EntityID,
		Metadata:    activity.Metadata,
		CreatedAt:   activity.CreatedAt,
	}

	if activity.User.ID != 0 {
		user := ToUserDTO(activity.User)
		dto.User = &user
	}

	return dto
}

// ToActivityDTOs converts an activity slice
func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = ToActivityDTO(a)
	}
	return dtos
}
