package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
	ErrInvalidProjectKey   = errors.New("project key must be uppercase letters and numbers, at most 10 characters")
	ErrProjectKeyTaken     = errors.New("project key already exists")
	ErrMemberNotFound      = errors.New("project member not found")
	ErrAlreadyMember       = errors.New("user is already a member of this project")
	ErrInvalidProjectRole  = errors.New("invalid project role")
	ErrLastAdmin           = errors.New("cannot remove or demote the last admin of the project")
)

// ProjectService provides business logic for projects and their memberships.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	activities  *ActivityService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, activities *ActivityService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		activities:  activities,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Key         string
	Description string
	CreatorID   uint64
}

// CreateProject creates a project and makes the creator its first admin.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	key := utils.NormalizeProjectKey(input.Key)
	if !utils.ValidProjectKey(key) {
		return nil, ErrInvalidProjectKey
	}

	if _, err := s.projectRepo.FindByKey(key); err == nil {
		return nil, ErrProjectKeyTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project key: %w", err)
	}

	project := &models.Project{
		Name:        name,
		Key:         key,
		Description: input.Description,
		CreatedByID: input.CreatorID,
		IsActive:    true,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &models.ProjectRole{
		ProjectID: project.ID,
		UserID:    input.CreatorID,
		Role:      models.ProjectRoleAdmin,
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add creator to project: %w", err)
	}

	s.activities.Log(project.ID, input.CreatorID, models.ActionProjectCreated,
		fmt.Sprintf("Created project %q", project.Name),
		models.EntityProject, &project.ID,
		models.JSONMap{"projectName": project.Name, "projectKey": project.Key})

	return project, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjectsForUser returns the caller's memberships with projects attached.
func (s *ProjectService) ListProjectsForUser(userID uint64) ([]models.ProjectRole, error) {
	memberships, err := s.projectRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// UpdateProjectInput represents a project edit.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// UpdateProject updates a project's mutable fields. The key is immutable.
func (s *ProjectService) UpdateProject(id, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	oldName := project.Name

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	metadata := models.JSONMap{"projectName": project.Name}
	if project.Name != oldName {
		metadata["nameChanged"] = models.JSONMap{"from": oldName, "to": project.Name}
	}
	s.activities.Log(project.ID, actorID, models.ActionProjectUpdated,
		fmt.Sprintf("Updated project %q", project.Name),
		models.EntityProject, &project.ID, metadata)

	return project, nil
}

// DeleteProject removes the project with its tasks, memberships, and
// activities in one transaction.
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.projectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListMembers returns a project's memberships sorted by role then join time.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectRole, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return members, nil
}

// AddMember adds a user to a project with the given role.
func (s *ProjectService) AddMember(projectID, actorID, userID uint64, role models.ProjectRoleName) (*models.ProjectRole, error) {
	if !role.Valid() {
		return nil, ErrInvalidProjectRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectRole{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	member.User = *user

	s.activities.Log(projectID, actorID, models.ActionMemberAdded,
		fmt.Sprintf("Added %s as %s", user.Name, role),
		models.EntityMember, &userID,
		models.JSONMap{"memberName": user.Name, "role": string(role)})

	return member, nil
}

// ChangeMemberRole changes a member's project role. Demoting the sole
// remaining admin is rejected, same as removal: otherwise the last-admin
// invariant could be escaped through a role change.
func (s *ProjectService) ChangeMemberRole(projectID, actorID, userID uint64, role models.ProjectRoleName) (*models.ProjectRole, error) {
	if !role.Valid() {
		return nil, ErrInvalidProjectRole
	}

	old, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	oldRole := old.Role

	member, err := s.projectRepo.UpdateMemberRole(projectID, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLastProjectAdmin):
			return nil, ErrLastAdmin
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrMemberNotFound
		default:
			return nil, fmt.Errorf("failed to change member role: %w", err)
		}
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	member.User = *user

	s.activities.Log(projectID, actorID, models.ActionMemberRoleChanged,
		fmt.Sprintf("Changed %s's role from %s to %s", user.Name, oldRole, role),
		models.EntityMember, &userID,
		models.JSONMap{"memberName": user.Name, "oldRole": string(oldRole), "newRole": string(role)})

	return member, nil
}

// RemoveMember removes a member from the project, guarding the last-admin
// invariant.
func (s *ProjectService) RemoveMember(projectID, actorID, userID uint64) error {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	user, err := s.userRepo.FindByID(member.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrLastProjectAdmin):
			return ErrLastAdmin
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrMemberNotFound
		default:
			return fmt.Errorf("failed to remove member: %w", err)
		}
	}

	memberName := fmt.Sprintf("user %d", userID)
	if user != nil {
		memberName = user.Name
	}
	s.activities.Log(projectID, actorID, models.ActionMemberRemoved,
		fmt.Sprintf("Removed %s from project", memberName),
		models.EntityMember, &userID,
		models.JSONMap{"memberName": memberName})

	return nil
}
