package repository

import (
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with the global role preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users with roles preloaded, newest first
	List() ([]models.User, error)

	// Update saves changes to a user
	Update(user *models.User) error

	// Delete hard deletes a user
	Delete(id uint64) error
}

// RoleRepository defines the interface for global role data access
type RoleRepository interface {
	// Create creates a new role
	Create(role *models.Role) error

	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// FindByName finds a role by name
	FindByName(name string) (*models.Role, error)

	// List returns all roles
	List() ([]models.Role, error)

	// Update saves changes to a role
	Update(role *models.Role) error

	// Delete hard deletes a role
	Delete(id uint64) error

	// CountUsers counts users referencing the role
	CountUsers(roleID uint64) (int64, error)
}

// ProjectRepository defines the interface for project and membership access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByKey finds a project by its normalized key
	FindByKey(key string) (*models.Project, error)

	// Update saves changes to a project
	Update(project *models.Project) error

	// Delete removes the project and all dependent rows in one transaction
	Delete(id uint64) error

	// AddMember adds a membership row
	AddMember(member *models.ProjectRole) error

	// FindMember finds a specific membership
	FindMember(projectID, userID uint64) (*models.ProjectRole, error)

	// ListMembers lists memberships for a project, sorted by role then join time
	ListMembers(projectID uint64) ([]models.ProjectRole, error)

	// ListMembersByUserID lists memberships across projects for a user
	ListMembersByUserID(userID uint64) ([]models.ProjectRole, error)

	// UpdateMemberRole changes a member's role. Demoting the sole remaining
	// admin fails with ErrLastProjectAdmin; the check and the write share a
	// transaction.
	UpdateMemberRole(projectID, userID uint64, role models.ProjectRoleName) (*models.ProjectRole, error)

	// RemoveMember deletes a membership. Removing the sole remaining admin
	// fails with ErrLastProjectAdmin; the check and the delete share a
	// transaction.
	RemoveMember(projectID, userID uint64) error
}

// SupportRepository defines the interface for support request data access
type SupportRepository interface {
	// Create creates a new support request
	Create(request *models.SupportRequest) error

	// FindByID finds a support request by ID with user relations preloaded
	FindByID(id uint64) (*models.SupportRequest, error)

	// List returns all support requests, newest first
	List() ([]models.SupportRequest, error)

	// ListByUserID returns one user's support requests, newest first
	ListByUserID(userID uint64) ([]models.SupportRequest, error)

	// Update saves changes to a support request
	Update(request *models.SupportRequest) error

	// Delete removes a support request
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    uint64
	Status       *models.TaskStatus
	AssignedToID *uint64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindProjectTask finds a task by ID scoped to a project, with optional
	// preloading. A task under a different project is reported as not found.
	FindProjectTask(projectID, taskID uint64, preload ...string) (*models.Task, error)

	// List retrieves a project's tasks ordered by sort_order ascending then
	// creation time descending
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves changes to a task
	Update(task *models.Task) error

	// Delete hard deletes a task
	Delete(id uint64) error

	// NextSortOrder returns max(sort_order)+1 within the (project, status)
	// partition, or 0 when the partition is empty
	NextSortOrder(projectID uint64, status models.TaskStatus) (int, error)

	// MoveToPartition shifts destination rows with sort_order >= order up by
	// one (excluding the moved task) and writes the task's new status and
	// order, all in one transaction. A nil order keeps the task's current
	// numeric order.
	MoveToPartition(task *models.Task, status models.TaskStatus, order *int) error
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Create appends an activity record
	Create(activity *models.Activity) error

	// ListByProject returns a project's activities newest first
	ListByProject(projectID uint64, offset, limit int) ([]models.Activity, int64, error)
}
