package services

import (
	"fmt"
	"log"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

// ActivityService appends and reads the per-project audit trail.
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Log appends an activity record. Logging is best effort: a failed append is
// written to the process log and never surfaces to the caller, so the primary
// operation that triggered it cannot be rolled back or blocked by it.
func (s *ActivityService) Log(projectID, userID uint64, action models.ActivityAction, description string, entityType models.ActivityEntityType, entityID *uint64, metadata models.JSONMap) {
	activity := &models.Activity{
		ProjectID:   projectID,
		UserID:      userID,
		Action:      action,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		Metadata:    metadata,
	}

	if err := s.activityRepo.Create(activity); err != nil {
		log.Printf("failed to log activity %s on project %d: %v", action, projectID, err)
	}
}

// ListByProject returns a project's activities newest first.
func (s *ActivityService) ListByProject(projectID uint64, offset, limit int) ([]models.Activity, int64, error) {
	activities, total, err := s.activityRepo.ListByProject(projectID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}
