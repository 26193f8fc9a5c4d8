package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleNameRequired  = errors.New("role name is required")
	ErrRoleNameTaken     = errors.New("role name already exists")
	ErrInvalidPermission = errors.New("invalid permission value")
	ErrRoleInUse         = errors.New("role is referenced by existing users")
)

// RoleService manages the global role registry.
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// ListRoles returns every global role.
func (s *RoleService) ListRoles() ([]models.Role, error) {
	roles, err := s.roleRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// GetRole returns a role by ID.
func (s *RoleService) GetRole(id uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}

// CreateRoleInput represents parameters to create a role.
type CreateRoleInput struct {
	Name        string
	Permissions models.PermissionList
	Description string
}

// CreateRole creates a role after validating the permission enum and name
// uniqueness.
func (s *RoleService) CreateRole(input CreateRoleInput) (*models.Role, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, ErrRoleNameRequired
	}
	if err := validatePermissions(input.Permissions); err != nil {
		return nil, err
	}

	if _, err := s.roleRepo.FindByName(name); err == nil {
		return nil, ErrRoleNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	role := &models.Role{
		Name:        name,
		Permissions: input.Permissions,
		Description: input.Description,
	}

	if err := s.roleRepo.Create(role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// UpdateRoleInput represents a role edit. The name itself is immutable.
type UpdateRoleInput struct {
	Permissions *models.PermissionList
	Description *string
}

// UpdateRole updates a role's permissions and description.
func (s *RoleService) UpdateRole(id uint64, input UpdateRoleInput) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	if input.Permissions != nil {
		if err := validatePermissions(*input.Permissions); err != nil {
			return nil, err
		}
		role.Permissions = *input.Permissions
	}
	if input.Description != nil {
		role.Description = *input.Description
	}

	if err := s.roleRepo.Update(role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a role unless a user still references it.
func (s *RoleService) DeleteRole(id uint64) error {
	if _, err := s.roleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	count, err := s.roleRepo.CountUsers(id)
	if err != nil {
		return fmt.Errorf("failed to count role users: %w", err)
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.roleRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	return nil
}

func validatePermissions(perms models.PermissionList) error {
	for _, p := range perms {
		if !p.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidPermission, p)
		}
	}
	return nil
}
