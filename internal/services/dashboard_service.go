package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

// DashboardService aggregates read-only reporting over tasks and projects.
type DashboardService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *DashboardService {
	return &DashboardService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// Overview summarizes the caller's assigned tasks across member projects.
type Overview struct {
	TotalAssignedTasks int                       `json:"total_assigned_tasks"`
	TasksByStatus      map[models.TaskStatus]int `json:"tasks_by_status"`
	UpcomingDeadlines  []models.Task             `json:"upcoming_deadlines"`
	OverdueTasks       []models.Task             `json:"overdue_tasks"`
	TotalProjects      int                       `json:"total_projects"`
}

const overviewListLimit = 10

// GetOverview builds the cross-project dashboard for a user.
func (s *DashboardService) GetOverview(userID uint64) (*Overview, error) {
	memberships, err := s.projectRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	overview := &Overview{
		TasksByStatus:     map[models.TaskStatus]int{},
		UpcomingDeadlines: []models.Task{},
		OverdueTasks:      []models.Task{},
		TotalProjects:     len(memberships),
	}

	now := time.Now()
	nextWeek := now.Add(7 * 24 * time.Hour)

	for _, m := range memberships {
		tasks, err := s.taskRepo.List(repository.TaskFilter{
			ProjectID:    m.ProjectID,
			AssignedToID: &userID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
		}

		for _, task := range tasks {
			overview.TotalAssignedTasks++
			overview.TasksByStatus[task.Status]++

			if task.DueDate == nil {
				continue
			}
			switch {
			case task.DueDate.Before(now) && task.Status != models.TaskStatusDone:
				if len(overview.OverdueTasks) < overviewListLimit {
					overview.OverdueTasks = append(overview.OverdueTasks, task)
				}
			case !task.DueDate.Before(now) && !task.DueDate.After(nextWeek):
				if len(overview.UpcomingDeadlines) < overviewListLimit {
					overview.UpcomingDeadlines = append(overview.UpcomingDeadlines, task)
				}
			}
		}
	}

	return overview, nil
}

// ProjectProgress summarizes completion within one project.
type ProjectProgress struct {
	TotalTasks                  int                         `json:"total_tasks"`
	CompletedTasks              int                         `json:"completed_tasks"`
	CompletionPercentage        int                         `json:"completion_percentage"`
	StatusBreakdown             map[models.TaskStatus]int   `json:"status_breakdown"`
	PriorityBreakdown           map[models.TaskPriority]int `json:"priority_breakdown"`
	TotalSubtasks               int                         `json:"total_subtasks"`
	CompletedSubtasks           int                         `json:"completed_subtasks"`
	SubtaskCompletionPercentage int                         `json:"subtask_completion_percentage"`
}

// GetProjectProgress computes task and subtask completion for a project.
func (s *DashboardService) GetProjectProgress(projectID uint64) (*ProjectProgress, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	progress := &ProjectProgress{
		TotalTasks:        len(tasks),
		StatusBreakdown:   map[models.TaskStatus]int{},
		PriorityBreakdown: map[models.TaskPriority]int{},
	}

	for _, task := range tasks {
		progress.StatusBreakdown[task.Status]++
		progress.PriorityBreakdown[task.Priority]++
		if task.Status == models.TaskStatusDone {
			progress.CompletedTasks++
		}
		progress.TotalSubtasks += len(task.Subtasks)
		progress.CompletedSubtasks += completedCount(task.Subtasks)
	}

	if progress.TotalTasks > 0 {
		progress.CompletionPercentage = progress.CompletedTasks * 100 / progress.TotalTasks
	}
	if progress.TotalSubtasks > 0 {
		progress.SubtaskCompletionPercentage = progress.CompletedSubtasks * 100 / progress.TotalSubtasks
	}

	return progress, nil
}
