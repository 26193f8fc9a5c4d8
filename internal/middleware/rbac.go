package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/authz"
	"github.com/yukikurage/project-tracker-api/internal/database"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// loadUserRole fetches the caller's global role fresh from storage. Roles are
// never cached across requests, so a reassignment takes effect on the next
// request.
func loadUserRole(c *gin.Context) (*models.Role, authz.Reason, bool) {
	userID, exists := GetUserID(c)
	if !exists {
		return nil, authz.ReasonNotAuthenticated, false
	}

	var user models.User
	if err := database.GetDB().Preload("Role").First(&user, userID).Error; err != nil {
		return nil, authz.ReasonNotAuthenticated, false
	}

	if user.Role == nil {
		return nil, authz.ReasonNoRoleAssigned, false
	}

	return user.Role, "", true
}

// RequirePermission gates system-level actions on a global permission.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, reason, ok := loadUserRole(c)
		if !ok {
			denyGlobal(c, reason)
			return
		}

		if !authz.HasPermission(role, perm) {
			denyGlobal(c, authz.ReasonInsufficientRole)
			return
		}

		c.Next()
	}
}

// RequireAdmin gates actions on the global admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, reason, ok := loadUserRole(c)
		if !ok {
			denyGlobal(c, reason)
			return
		}

		if !authz.IsAdmin(role) {
			denyGlobal(c, authz.ReasonInsufficientRole)
			return
		}

		c.Next()
	}
}

// denyGlobal renders the collapsed access-denied response. The reason is
// logged, never returned to the caller.
func denyGlobal(c *gin.Context, reason authz.Reason) {
	log.Printf("global access denied: %s %s reason=%s", c.Request.Method, c.FullPath(), reason)
	if reason == authz.ReasonNotAuthenticated {
		apierrors.Unauthorized(c, "")
	} else {
		apierrors.Forbidden(c, "")
	}
	c.Abort()
}
