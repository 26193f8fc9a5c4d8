package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	// Stored as project_key, KEY is reserved in MySQL.
	Key         string    `gorm:"column:project_key;type:varchar(10);uniqueIndex;not null" json:"key"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedByID uint64    `gorm:"not null;index" json:"created_by_id"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
