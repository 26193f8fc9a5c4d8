package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusInReview   TaskStatus = "in-review"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is one of the board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// SubtaskList is stored as a JSON array column on the task row.
type SubtaskList []Subtask

// StringList is stored as a JSON array column.
type StringList []string

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	ProjectID    uint64       `gorm:"not null;index:idx_tasks_project_status;index:idx_tasks_project_order" json:"project_id"`
	Title        string       `gorm:"not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index:idx_tasks_project_status" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	AssignedToID *uint64      `gorm:"index" json:"assigned_to_id"`
	CreatedByID  uint64       `gorm:"not null" json:"created_by_id"`
	Subtasks     SubtaskList  `gorm:"serializer:json;type:text" json:"subtasks"`
	DueDate      *time.Time   `json:"due_date"`
	Tags         StringList   `gorm:"serializer:json;type:text" json:"tags"`
	// SortOrder drives Kanban column ordering within a (project, status)
	// partition. "order" is a reserved word in SQL, hence the column name.
	SortOrder int       `gorm:"column:sort_order;not null;default:0;index:idx_tasks_project_order" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy  User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
