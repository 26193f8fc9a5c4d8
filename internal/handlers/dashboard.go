package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

// DashboardHandler serves the reporting endpoints: the cross-project
// overview, per-project progress and the activity feed.
type DashboardHandler struct {
	dashboardService *services.DashboardService
	activityService  *services.ActivityService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService, activityService *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		activityService:  activityService,
	}
}

// GetOverview returns the caller's assigned tasks across their projects.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	overview, err := h.dashboardService.GetOverview(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to build overview")
		return
	}

	respondData(c, http.StatusOK, overview)
}

// GetProjectProgress returns task and subtask completion statistics for a
// project.
func (h *DashboardHandler) GetProjectProgress(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	progress, err := h.dashboardService.GetProjectProgress(projectID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute progress")
		return
	}

	respondData(c, http.StatusOK, progress)
}

// ListActivities returns a project's activity feed, newest first.
func (h *DashboardHandler) ListActivities(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	params := utils.GetPaginationParams(c)
	activities, total, err := h.activityService.ListByProject(projectID, params.Offset, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list activities")
		return
	}

	activityDTOs := dto.ToActivityDTOs(activities)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(activityDTOs),
		"data":    activityDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
