package models

import "time"

type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

// Valid reports whether the permission is one of the known values.
func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionWrite, PermissionDelete:
		return true
	}
	return false
}

// PermissionList is stored as a JSON array column.
type PermissionList []Permission

// Contains reports whether the list includes the given permission.
func (l PermissionList) Contains(p Permission) bool {
	for _, v := range l {
		if v == p {
			return true
		}
	}
	return false
}

// RoleNameAdmin is the global administrator role seeded at first boot.
const RoleNameAdmin = "admin"

// RoleNameUser is the default role assigned at registration.
const RoleNameUser = "user"

type Role struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Permissions PermissionList `gorm:"serializer:json;type:text" json:"permissions"`
	Description string         `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
