package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project. The creator becomes its first admin
// member.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Key         string `json:"key" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects the caller is a member of, with the
// caller's role in each.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.projectService.ListProjectsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	projectDTOs := make([]dto.ProjectWithRoleDTO, 0, len(memberships))
	for _, membership := range memberships {
		projectDTOs = append(projectDTOs, dto.ToProjectWithRoleDTO(membership))
	}

	respondList(c, projectDTOs, len(projectDTOs))
}

// GetProject returns a project the caller is a member of.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project's name, description or active flag. The
// key is immutable.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, userID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project together with its tasks, memberships and
// activity history.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	if err := h.projectService.DeleteProject(projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListMembers returns a project's member roster.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	members, err := h.projectService.ListMembers(projectID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list members")
		return
	}

	memberDTOs := dto.ToMemberDTOs(members)
	respondList(c, memberDTOs, len(memberDTOs))
}

// AddMember adds a user to the project with the given role.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	type AddMemberRequest struct {
		UserID uint64                 `json:"user_id" binding:"required"`
		Role   models.ProjectRoleName `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(projectID, actorID, req.UserID, req.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToMemberDTO(*member))
}

// ChangeMemberRole changes an existing member's project role.
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role models.ProjectRoleName `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.ChangeMemberRole(projectID, actorID, userID, req.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToMemberDTO(*member))
}

// RemoveMember removes a user from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, actorID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidProjectKey),
		errors.Is(err, services.ErrInvalidProjectRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectKeyTaken),
		errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrLastAdmin):
		apierrors.InvariantViolation(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
