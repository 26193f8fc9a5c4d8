package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/authz"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleEmpty         = errors.New("title cannot be empty")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidPriority    = errors.New("invalid task priority")
	ErrStatusRequired     = errors.New("status is required")
	ErrNotTaskAssignee    = errors.New("contributors can only update tasks assigned to them")
	ErrInvalidAssignee    = errors.New("assignee is not a member of the project")
)

// TaskService handles task business logic and the per-partition ordering.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	activities  *ActivityService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, activities *ActivityService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		activities:  activities,
	}
}

// ListTasksInput represents filters for listing a project's tasks.
type ListTasksInput struct {
	ProjectID    uint64
	Status       *models.TaskStatus
	AssignedToID *uint64
}

// ListTasks returns a project's tasks in board order.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		ProjectID:    input.ProjectID,
		Status:       input.Status,
		AssignedToID: input.AssignedToID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task scoped to the project. A task under a different
// project reports not found rather than confirming its existence.
func (s *TaskService) GetTask(projectID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindProjectTask(projectID, taskID, "AssignedTo", "CreatedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID    uint64
	CreatorID    uint64
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	AssignedToID *uint64
	DueDate      *time.Time
	Tags         models.StringList
	Subtasks     models.SubtaskList
}

// CreateTask creates a task at the end of its (project, status) partition.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	} else if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.AssignedToID != nil {
		if err := s.ensureProjectMember(input.ProjectID, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	order, err := s.taskRepo.NextSortOrder(input.ProjectID, input.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to compute task order: %w", err)
	}

	task := &models.Task{
		ProjectID:    input.ProjectID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		AssignedToID: input.AssignedToID,
		CreatedByID:  input.CreatorID,
		Subtasks:     input.Subtasks,
		DueDate:      input.DueDate,
		Tags:         input.Tags,
		SortOrder:    order,
	}
	if task.Subtasks == nil {
		task.Subtasks = models.SubtaskList{}
	}
	if task.Tags == nil {
		task.Tags = models.StringList{}
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.activities.Log(input.ProjectID, input.CreatorID, models.ActionTaskCreated,
		fmt.Sprintf("Created task %q", task.Title),
		models.EntityTask, &task.ID,
		models.JSONMap{"taskTitle": task.Title, "status": string(task.Status), "priority": string(task.Priority)})

	return s.GetTask(input.ProjectID, task.ID)
}

// UpdateTaskInput represents a partial task edit.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedToID  *uint64
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
	Tags          *models.StringList
	Subtasks      *models.SubtaskList
	Order         *int
}

// UpdateTask applies a partial edit under the ownership rule: admins and
// managers always, a contributor only on a task currently assigned to them.
// A status change without an explicit order appends the task to the end of
// the destination partition.
func (s *TaskService) UpdateTask(projectID, actorID uint64, actorRole models.ProjectRoleName, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindProjectTask(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanUpdateTask(actorRole, task.AssignedToID, actorID) {
		return nil, ErrNotTaskAssignee
	}

	oldStatus := task.Status
	oldAssignee := task.AssignedToID
	oldSubtasks := task.Subtasks

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if err := s.ensureProjectMember(projectID, *input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.Subtasks != nil {
		task.Subtasks = *input.Subtasks
	}
	if input.Order != nil {
		task.SortOrder = *input.Order
	}

	// A task entering a new column without an explicit position goes to the
	// end of that column.
	if task.Status != oldStatus && input.Order == nil {
		order, err := s.taskRepo.NextSortOrder(projectID, task.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to compute task order: %w", err)
		}
		task.SortOrder = order
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.GetTask(projectID, task.ID)
	if err != nil {
		return nil, err
	}

	s.logTaskUpdate(projectID, actorID, updated, oldStatus, oldAssignee)
	s.logSubtaskChanges(projectID, actorID, updated, oldSubtasks, input.Subtasks != nil)

	return updated, nil
}

// MoveTaskInput represents a board move.
type MoveTaskInput struct {
	Status models.TaskStatus
	Order  *int
}

// MoveTask moves a task to a status column, optionally at a specific
// position. Tasks at or past the insertion point are shifted up by one to
// make room; without an explicit order the task keeps its numeric order and
// only changes partition.
func (s *TaskService) MoveTask(projectID, actorID, taskID uint64, input MoveTaskInput) (*models.Task, error) {
	if input.Status == "" {
		return nil, ErrStatusRequired
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.FindProjectTask(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	oldStatus := task.Status

	if err := s.taskRepo.MoveToPartition(task, input.Status, input.Order); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	updated, err := s.GetTask(projectID, task.ID)
	if err != nil {
		return nil, err
	}

	s.activities.Log(projectID, actorID, models.ActionTaskMoved,
		fmt.Sprintf("Moved task %q from %s to %s", updated.Title, oldStatus, updated.Status),
		models.EntityTask, &updated.ID,
		models.JSONMap{"taskTitle": updated.Title, "fromStatus": string(oldStatus), "toStatus": string(updated.Status)})

	return updated, nil
}

// DeleteTask hard deletes a task. Remaining orders keep their gaps; only the
// relative order within a partition matters for rendering.
func (s *TaskService) DeleteTask(projectID, actorID, taskID uint64) error {
	task, err := s.taskRepo.FindProjectTask(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.activities.Log(projectID, actorID, models.ActionTaskDeleted,
		fmt.Sprintf("Deleted task %q", task.Title),
		models.EntityTask, &task.ID,
		models.JSONMap{"taskTitle": task.Title})

	return nil
}

// logTaskUpdate derives the activity action for an update. First match wins:
// a status change outranks a reassignment, which outranks a generic update.
func (s *TaskService) logTaskUpdate(projectID, actorID uint64, task *models.Task, oldStatus models.TaskStatus, oldAssignee *uint64) {
	action := models.ActionTaskUpdated
	description := fmt.Sprintf("Updated task %q", task.Title)

	switch {
	case task.Status != oldStatus:
		action = models.ActionTaskStatusChanged
		description = fmt.Sprintf("Changed task %q status from %s to %s", task.Title, oldStatus, task.Status)
	case !equalAssignee(task.AssignedToID, oldAssignee) && task.AssignedToID != nil:
		assignee := "user"
		if task.AssignedTo != nil {
			assignee = task.AssignedTo.Name
		}
		action = models.ActionTaskAssigned
		description = fmt.Sprintf("Assigned task %q to %s", task.Title, assignee)
	}

	s.activities.Log(projectID, actorID, action, description,
		models.EntityTask, &task.ID,
		models.JSONMap{"taskTitle": task.Title, "status": string(task.Status)})
}

// logSubtaskChanges emits subtask events when an update touched the list.
func (s *TaskService) logSubtaskChanges(projectID, actorID uint64, task *models.Task, old models.SubtaskList, touched bool) {
	if !touched {
		return
	}

	if len(task.Subtasks) > len(old) {
		s.activities.Log(projectID, actorID, models.ActionSubtaskCreated,
			fmt.Sprintf("Added a subtask to %q", task.Title),
			models.EntitySubtask, &task.ID,
			models.JSONMap{"taskTitle": task.Title, "subtaskCount": len(task.Subtasks)})
	}

	if completedCount(task.Subtasks) > completedCount(old) {
		s.activities.Log(projectID, actorID, models.ActionSubtaskCompleted,
			fmt.Sprintf("Completed a subtask of %q", task.Title),
			models.EntitySubtask, &task.ID,
			models.JSONMap{"taskTitle": task.Title, "completedCount": completedCount(task.Subtasks)})
	}
}

func (s *TaskService) ensureProjectMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	return nil
}

func equalAssignee(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func completedCount(subtasks models.SubtaskList) int {
	count := 0
	for _, st := range subtasks {
		if st.Completed {
			count++
		}
	}
	return count
}
