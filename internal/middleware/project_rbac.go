package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/authz"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/database"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// resolveProjectID extracts the project identifier in precedence order: path
// segment, JSON body field, query field. The body is restored after peeking
// so handlers can still bind it.
func resolveProjectID(c *gin.Context) (uint64, bool) {
	for _, param := range []string{"projectId", "id"} {
		if raw := c.Param(param); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			return id, err == nil
		}
	}

	if id, ok := projectIDFromBody(c); ok {
		return id, true
	}

	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		return id, err == nil
	}

	return 0, false
}

func projectIDFromBody(c *gin.Context) (uint64, bool) {
	if c.Request.Body == nil {
		return 0, false
	}

	data, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(data) == 0 {
		return 0, false
	}

	var body struct {
		ProjectID uint64 `json:"project_id"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.ProjectID == 0 {
		return 0, false
	}

	return body.ProjectID, true
}

// resolveProjectRole loads the caller's membership for the resolved project.
// Membership is re-read on every request; there is no cross-request caching
// of project roles.
func resolveProjectRole(c *gin.Context) (uint64, models.ProjectRoleName, authz.Reason, bool) {
	projectID, ok := resolveProjectID(c)
	if !ok {
		apierrors.BadRequest(c, "Project ID is required")
		c.Abort()
		return 0, "", "", false
	}

	userID, exists := GetUserID(c)
	if !exists {
		return projectID, "", authz.ReasonNotAuthenticated, false
	}

	var member models.ProjectRole
	if err := database.GetDB().
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return projectID, "", authz.ReasonNotAMember, false
	}

	return projectID, member.Role, "", true
}

// RequireProjectRole checks that the caller holds one of the allowed project
// roles and stores the resolved role and project ID in context.
func RequireProjectRole(allowed ...models.ProjectRoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, role, reason, ok := resolveProjectRole(c)
		if !ok {
			if reason != "" {
				denyProject(c, reason)
			}
			return
		}

		if !authz.RoleIn(role, allowed...) {
			denyProject(c, authz.ReasonInsufficientRole)
			return
		}

		setProjectContext(c, projectID, role)
		c.Next()
	}
}

// RequireProjectMember allows any of the four project roles (read access).
func RequireProjectMember() gin.HandlerFunc {
	return RequireProjectRole(
		models.ProjectRoleAdmin,
		models.ProjectRoleManager,
		models.ProjectRoleContributor,
		models.ProjectRoleViewer,
	)
}

// RequireProjectAdmin checks that the caller is a project admin.
func RequireProjectAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, role, reason, ok := resolveProjectRole(c)
		if !ok {
			if reason != "" {
				denyProject(c, reason)
			}
			return
		}

		if !authz.IsProjectAdmin(role) {
			denyProject(c, authz.ReasonInsufficientRole)
			return
		}

		setProjectContext(c, projectID, role)
		c.Next()
	}
}

// RequireCanManageTasks gates task deletion and destructive reassignment.
func RequireCanManageTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, role, reason, ok := resolveProjectRole(c)
		if !ok {
			if reason != "" {
				denyProject(c, reason)
			}
			return
		}

		if !authz.CanManageTasks(role) {
			denyProject(c, authz.ReasonInsufficientRole)
			return
		}

		setProjectContext(c, projectID, role)
		c.Next()
	}
}

// RequireCanCreateTasks gates task creation and move/reorder.
func RequireCanCreateTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, role, reason, ok := resolveProjectRole(c)
		if !ok {
			if reason != "" {
				denyProject(c, reason)
			}
			return
		}

		if !authz.CanCreateTasks(role) {
			denyProject(c, authz.ReasonInsufficientRole)
			return
		}

		setProjectContext(c, projectID, role)
		c.Next()
	}
}

func setProjectContext(c *gin.Context, projectID uint64, role models.ProjectRoleName) {
	c.Set(constants.ContextKeyProjectID, projectID)
	c.Set(constants.ContextKeyProjectRole, role)
}

// GetProjectID retrieves the resolved project ID from context
func GetProjectID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyProjectID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// GetProjectRole retrieves the caller's resolved project role from context
func GetProjectRole(c *gin.Context) (models.ProjectRoleName, bool) {
	v, exists := c.Get(constants.ContextKeyProjectRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.ProjectRoleName)
	return role, ok
}

// denyProject renders the collapsed access-denied response. Not-a-member and
// insufficient-role are deliberately indistinguishable to the caller.
func denyProject(c *gin.Context, reason authz.Reason) {
	log.Printf("project access denied: %s %s reason=%s", c.Request.Method, c.FullPath(), reason)
	if reason == authz.ReasonNotAuthenticated {
		apierrors.Unauthorized(c, "")
	} else {
		apierrors.Forbidden(c, "")
	}
	c.Abort()
}
