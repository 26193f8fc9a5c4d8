package dto

import (
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// UserDTO represents a user in API responses. Credential fields never leave
// the service boundary.
type UserDTO struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// RoleDTO represents a global role in API responses
type RoleDTO struct {
	ID          uint64                `json:"id"`
	Name        string                `json:"name"`
	Permissions models.PermissionList `json:"permissions"`
	Description string                `json:"description"`
}

// UserWithRoleDTO is a user with the global role attached
type UserWithRoleDTO struct {
	UserDTO
	Role *RoleDTO `json:"role,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
	}
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: role.Permissions,
		Description: role.Description,
	}
}

// ToUserWithRoleDTO converts a User with preloaded Role
func ToUserWithRoleDTO(user models.User) UserWithRoleDTO {
	dto := UserWithRoleDTO{UserDTO: ToUserDTO(user)}
	if user.Role != nil {
		role := ToRoleDTO(*user.Role)
		dto.Role = &role
	}
	return dto
}
