package models

import "time"

type ProjectRoleName string

const (
	ProjectRoleAdmin       ProjectRoleName = "admin"
	ProjectRoleManager     ProjectRoleName = "manager"
	ProjectRoleContributor ProjectRoleName = "contributor"
	ProjectRoleViewer      ProjectRoleName = "viewer"
)

// Valid reports whether the role is one of the four project roles.
func (r ProjectRoleName) Valid() bool {
	switch r {
	case ProjectRoleAdmin, ProjectRoleManager, ProjectRoleContributor, ProjectRoleViewer:
		return true
	}
	return false
}

// ProjectRole is the per-project membership record. A user holds at most one
// role per project, enforced by the composite primary key.
type ProjectRole struct {
	ProjectID uint64          `gorm:"primarykey" json:"project_id"`
	UserID    uint64          `gorm:"primarykey" json:"user_id"`
	Role      ProjectRoleName `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time       `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
