// Package authz contains the pure authorization decision functions. Callers
// load the relevant Role or ProjectRole first and pass it in; nothing here
// touches storage, so every gate is testable without a database.
package authz

import "github.com/yukikurage/project-tracker-api/internal/models"

// Reason classifies why a request was denied. All reasons map to the same
// access-denied response class; they exist for logging and UI hints only.
type Reason string

const (
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonNoRoleAssigned   Reason = "no_role_assigned"
	ReasonNotAMember       Reason = "not_a_member"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotAssignee      Reason = "not_assignee"
)

// Global gate

// HasPermission reports whether the role grants the permission. A nil role
// (no role assigned) never grants anything.
func HasPermission(role *models.Role, perm models.Permission) bool {
	if role == nil {
		return false
	}
	return role.Permissions.Contains(perm)
}

// HasAnyPermission reports whether the role grants at least one of the
// permissions.
func HasAnyPermission(role *models.Role, perms ...models.Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role grants every permission.
func HasAllPermissions(role *models.Role, perms ...models.Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// IsAdmin reports whether the role is the global administrator role.
func IsAdmin(role *models.Role) bool {
	return role != nil && role.Name == models.RoleNameAdmin
}

// Project gate

// IsProjectAdmin reports whether the project role is admin.
func IsProjectAdmin(role models.ProjectRoleName) bool {
	return role == models.ProjectRoleAdmin
}

// CanManageTasks governs task deletion and other destructive task actions:
// admin and manager only.
func CanManageTasks(role models.ProjectRoleName) bool {
	return role == models.ProjectRoleAdmin || role == models.ProjectRoleManager
}

// CanCreateTasks governs task creation and move/reorder: everyone but viewer.
func CanCreateTasks(role models.ProjectRoleName) bool {
	switch role {
	case models.ProjectRoleAdmin, models.ProjectRoleManager, models.ProjectRoleContributor:
		return true
	}
	return false
}

// RoleIn reports whether the role is in the allowed set.
func RoleIn(role models.ProjectRoleName, allowed ...models.ProjectRoleName) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// CanUpdateTask applies the per-task ownership rule: admins and managers may
// always update, a contributor only when the task is currently assigned to
// them, a viewer never. The assignee must come from the task's current state,
// not a cached role table.
func CanUpdateTask(role models.ProjectRoleName, assignedToID *uint64, userID uint64) bool {
	switch role {
	case models.ProjectRoleAdmin, models.ProjectRoleManager:
		return true
	case models.ProjectRoleContributor:
		return assignedToID != nil && *assignedToID == userID
	}
	return false
}
