package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

func roleWith(name string, perms ...models.Permission) *models.Role {
	return &models.Role{
		Name:        name,
		Permissions: models.PermissionList(perms),
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role *models.Role
		perm models.Permission
		want bool
	}{
		{"nil role denies", nil, models.PermissionRead, false},
		{"empty permissions deny", roleWith("user"), models.PermissionRead, false},
		{"granted permission", roleWith("user", models.PermissionRead), models.PermissionRead, true},
		{"missing permission", roleWith("user", models.PermissionRead), models.PermissionWrite, false},
		{"full admin set", roleWith("admin", models.PermissionRead, models.PermissionWrite, models.PermissionDelete), models.PermissionDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.perm))
		})
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	editor := roleWith("editor", models.PermissionRead, models.PermissionWrite)

	assert.True(t, HasAnyPermission(editor, models.PermissionDelete, models.PermissionRead))
	assert.False(t, HasAnyPermission(editor, models.PermissionDelete))
	assert.False(t, HasAnyPermission(nil, models.PermissionRead))

	assert.True(t, HasAllPermissions(editor, models.PermissionRead, models.PermissionWrite))
	assert.False(t, HasAllPermissions(editor, models.PermissionRead, models.PermissionDelete))
	assert.True(t, HasAllPermissions(editor))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(roleWith(models.RoleNameAdmin)))
	assert.False(t, IsAdmin(roleWith(models.RoleNameUser)))
	assert.False(t, IsAdmin(nil))
}

func TestProjectRoleGates(t *testing.T) {
	tests := []struct {
		role   models.ProjectRoleName
		admin  bool
		manage bool
		create bool
	}{
		{models.ProjectRoleAdmin, true, true, true},
		{models.ProjectRoleManager, false, true, true},
		{models.ProjectRoleContributor, false, false, true},
		{models.ProjectRoleViewer, false, false, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.admin, IsProjectAdmin(tt.role))
			assert.Equal(t, tt.manage, CanManageTasks(tt.role))
			assert.Equal(t, tt.create, CanCreateTasks(tt.role))
		})
	}
}

func TestRoleIn(t *testing.T) {
	allowed := []models.ProjectRoleName{models.ProjectRoleAdmin, models.ProjectRoleManager}

	assert.True(t, RoleIn(models.ProjectRoleAdmin, allowed...))
	assert.False(t, RoleIn(models.ProjectRoleViewer, allowed...))
	assert.False(t, RoleIn(models.ProjectRoleAdmin))
}

func TestCanUpdateTask(t *testing.T) {
	self := uint64(7)
	other := uint64(8)

	tests := []struct {
		name       string
		role       models.ProjectRoleName
		assignedTo *uint64
		want       bool
	}{
		{"admin always", models.ProjectRoleAdmin, nil, true},
		{"manager always", models.ProjectRoleManager, &other, true},
		{"contributor own task", models.ProjectRoleContributor, &self, true},
		{"contributor other's task", models.ProjectRoleContributor, &other, false},
		{"contributor unassigned task", models.ProjectRoleContributor, nil, false},
		{"viewer own task still denied", models.ProjectRoleViewer, &self, false},
		{"unknown role", "", &self, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpdateTask(tt.role, tt.assignedTo, self))
		})
	}
}
