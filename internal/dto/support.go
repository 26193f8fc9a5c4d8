package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// SupportRequestDTO represents a support ticket in API responses
type SupportRequestDTO struct {
	ID            uint64               `json:"id"`
	Subject       string               `json:"subject"`
	Message       string               `json:"message"`
	Status        models.SupportStatus `json:"status"`
	AdminResponse string               `json:"admin_response,omitempty"`
	User          *UserDTO             `json:"user,omitempty"`
	ResolvedBy    *UserDTO             `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time           `json:"resolved_at"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ToSupportRequestDTO converts a SupportRequest model to SupportRequestDTO
func ToSupportRequestDTO(request models.SupportRequest) SupportRequestDTO {
	dto := SupportRequestDTO{
		ID:            request.ID,
		Subject:       request.Subject,
		Message:       request.Message,
		Status:        request.Status,
		AdminResponse: request.AdminResponse,
		ResolvedAt:    request.ResolvedAt,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}

	if request.User.ID != 0 {
		user := ToUserDTO(request.User)
		dto.User = &user
	}

	if request.ResolvedBy != nil {
		resolver := ToUserDTO(*request.ResolvedBy)
		dto.ResolvedBy = &resolver
	}

	return dto
}

// ToSupportRequestDTOs converts a support request slice
func ToSupportRequestDTOs(requests []models.SupportRequest) []SupportRequestDTO {
	dtos := make([]SupportRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = ToSupportRequestDTO(r)
	}
	return dtos
}
