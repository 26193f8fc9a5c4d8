package models

import "time"

type ActivityAction string

const (
	ActionTaskCreated       ActivityAction = "task_created"
	ActionTaskUpdated       ActivityAction = "task_updated"
	ActionTaskDeleted       ActivityAction = "task_deleted"
	ActionTaskAssigned      ActivityAction = "task_assigned"
	ActionTaskStatusChanged ActivityAction = "task_status_changed"
	ActionTaskMoved         ActivityAction = "task_moved"
	ActionMemberAdded       ActivityAction = "member_added"
	ActionMemberRemoved     ActivityAction = "member_removed"
	ActionMemberRoleChanged ActivityAction = "member_role_changed"
	ActionProjectCreated    ActivityAction = "project_created"
	ActionProjectUpdated    ActivityAction = "project_updated"
	ActionSubtaskCreated    ActivityAction = "subtask_created"
	ActionSubtaskCompleted  ActivityAction = "subtask_completed"
)

type ActivityEntityType string

const (
	EntityTask    ActivityEntityType = "task"
	EntityProject ActivityEntityType = "project"
	EntityMember  ActivityEntityType = "member"
	EntitySubtask ActivityEntityType = "subtask"
)

// JSONMap is free-form activity metadata stored as a JSON object column.
type JSONMap map[string]any

// Activity is an append-only audit record. Rows are never updated; they are
// deleted only when the parent project is deleted.
type Activity struct {
	ID          uint64             `gorm:"primarykey" json:"id"`
	ProjectID   uint64             `gorm:"not null;index:idx_activities_project_created" json:"project_id"`
	UserID      uint64             `gorm:"not null;index" json:"user_id"`
	Action      ActivityAction     `gorm:"type:varchar(30);not null" json:"action"`
	Description string             `gorm:"type:text;not null" json:"description"`
	EntityType  ActivityEntityType `gorm:"type:varchar(20);not null;default:'task'" json:"entity_type"`
	EntityID    *uint64            `json:"entity_id"`
	Metadata    JSONMap            `gorm:"serializer:json;type:text" json:"metadata"`
	CreatedAt   time.Time          `gorm:"index:idx_activities_project_created" json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
