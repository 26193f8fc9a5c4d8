package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// TaskHandler coordinates task and board HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a project's tasks in board order, optionally filtered
// by status or assignee.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	input := services.ListTasksInput{ProjectID: projectID}

	if statusParam := c.Query("status"); statusParam != "" {
		status := models.TaskStatus(statusParam)
		input.Status = &status
	}
	if assigneeParam := c.Query("assigned_to"); assigneeParam != "" {
		assigneeID, err := strconv.ParseUint(assigneeParam, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to parameter")
			return
		}
		input.AssignedToID = &assigneeID
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskDTOs := dto.ToTaskDTOs(tasks)
	respondList(c, taskDTOs, len(taskDTOs))
}

// GetTask returns a single task scoped to the project in the URL.
func (h *TaskHandler) GetTask(c *gin.Context) {
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(projectID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task at the end of its status column.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}

	type CreateTaskRequest struct {
		Title        string              `json:"title" binding:"required"`
		Description  string              `json:"description"`
		Status       models.TaskStatus   `json:"status"`
		Priority     models.TaskPriority `json:"priority"`
		AssignedToID *uint64             `json:"assigned_to_id"`
		DueDate      *time.Time          `json:"due_date"`
		Tags         models.StringList   `json:"tags"`
		Subtasks     models.SubtaskList  `json:"subtasks"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:    projectID,
		CreatorID:    userID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
		Tags:         req.Tags,
		Subtasks:     req.Subtasks,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial edit to a task. An explicit JSON null for
// assigned_to_id or due_date clears the field; an absent key leaves it
// untouched.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}
	role, exists := middleware.GetProjectRole(c)
	if !exists {
		apierrors.Forbidden(c, "Access denied")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title        *string              `json:"title"`
		Description  *string              `json:"description"`
		Status       *models.TaskStatus   `json:"status"`
		Priority     *models.TaskPriority `json:"priority"`
		AssignedToID *uint64              `json:"assigned_to_id"`
		DueDate      *time.Time           `json:"due_date"`
		Tags         *models.StringList   `json:"tags"`
		Subtasks     *models.SubtaskList  `json:"subtasks"`
		Order        *int                 `json:"order"`
	}

	data, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var req UpdateTaskRequest
	if err := json.Unmarshal(data, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// The pointer fields cannot tell "key absent" from "key null", so the
	// raw body decides whether a null clears the field.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
		Tags:         req.Tags,
		Subtasks:     req.Subtasks,
		Order:        req.Order,
	}
	if raw, present := fields["assigned_to_id"]; present && string(raw) == "null" {
		input.ClearAssignee = true
	}
	if raw, present := fields["due_date"]; present && string(raw) == "null" {
		input.ClearDueDate = true
	}

	task, err := h.taskService.UpdateTask(projectID, userID, role, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// MoveTask moves a task to a status column, optionally at a specific board
// position.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type MoveTaskRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
		Order  *int              `json:"order"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.MoveTask(projectID, userID, taskID, services.MoveTaskInput{
		Status: req.Status,
		Order:  req.Order,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Remaining order values in the column keep
// their gaps.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	projectID, exists := middleware.GetProjectID(c)
	if !exists {
		apierrors.BadRequest(c, "Project ID is required")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(projectID, userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrStatusRequired),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotTaskAssignee):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
