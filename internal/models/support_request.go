package models

import "time"

// SupportStatus is the lifecycle state of a support request.
type SupportStatus string

const (
	SupportStatusPending  SupportStatus = "pending"
	SupportStatusResolved SupportStatus = "resolved"
	SupportStatusRejected SupportStatus = "rejected"
)

// SupportRequest is a ticket a user files with the administrators. Tickets
// are global, not scoped to a project.
type SupportRequest struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	UserID        uint64        `gorm:"not null;index:idx_support_user_status" json:"user_id"`
	Subject       string        `gorm:"type:varchar(255);not null" json:"subject"`
	Message       string        `gorm:"type:text;not null" json:"message"`
	Status        SupportStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_support_user_status;index" json:"status"`
	AdminResponse string        `gorm:"type:text" json:"admin_response"`
	ResolvedByID  *uint64       `json:"resolved_by_id"`
	ResolvedAt    *time.Time    `json:"resolved_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	User       User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ResolvedBy *User `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
}
