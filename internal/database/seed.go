package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// SeedRoles inserts the built-in global roles on first boot. It is a no-op
// once any role exists, so admin edits survive restarts.
func SeedRoles(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaultRoles := []models.Role{
		{
			Name:        models.RoleNameAdmin,
			Permissions: models.PermissionList{models.PermissionRead, models.PermissionWrite, models.PermissionDelete},
			Description: "Administrator with full access",
		},
		{
			Name:        models.RoleNameUser,
			Permissions: models.PermissionList{models.PermissionRead},
			Description: "Regular user with read-only access",
		},
	}

	if err := db.Create(&defaultRoles).Error; err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	log.Printf("Seeded %d default roles", len(defaultRoles))
	return nil
}
