package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// RoleHandler exposes the global role catalogue to administrators.
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// ListRoles returns all global roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles()
	if err != nil {
		apierrors.InternalError(c, "Failed to list roles")
		return
	}

	roleDTOs := make([]dto.RoleDTO, 0, len(roles))
	for _, role := range roles {
		roleDTOs = append(roleDTOs, dto.ToRoleDTO(role))
	}

	respondList(c, roleDTOs, len(roleDTOs))
}

// GetRole returns a single role by ID.
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(id)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToRoleDTO(*role))
}

// CreateRole creates a new global role.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	type CreateRoleRequest struct {
		Name        string                `json:"name" binding:"required"`
		Permissions models.PermissionList `json:"permissions"`
		Description string                `json:"description"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.CreateRole(services.CreateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
		Description: req.Description,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToRoleDTO(*role))
}

// UpdateRole updates a role's permissions and description. The name is
// immutable once created.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Permissions *models.PermissionList `json:"permissions"`
		Description *string                `json:"description"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.UpdateRole(id, services.UpdateRoleInput{
		Permissions: req.Permissions,
		Description: req.Description,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToRoleDTO(*role))
}

// DeleteRole removes a role that no user currently holds.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(id); err != nil {
		respondRoleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Role deleted successfully",
	})
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRoleNameRequired),
		errors.Is(err, services.ErrInvalidPermission):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRoleNameTaken),
		errors.Is(err, services.ErrRoleInUse):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
