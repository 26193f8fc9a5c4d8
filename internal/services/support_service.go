package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/authz"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

var (
	ErrSupportRequestNotFound = errors.New("support request not found")
	ErrSupportSubjectRequired = errors.New("subject is required")
	ErrSupportMessageRequired = errors.New("message is required")
)

// Fallback responses when an administrator closes a ticket without a note.
const (
	defaultResolveResponse = "Request resolved by admin"
	defaultRejectResponse  = "Request rejected by admin"
)

// SupportService manages support tickets. Regular users only ever see their
// own tickets; administrators see and close everyone's.
type SupportService struct {
	supportRepo repository.SupportRepository
	userRepo    repository.UserRepository
}

// NewSupportService creates a new SupportService.
func NewSupportService(supportRepo repository.SupportRepository, userRepo repository.UserRepository) *SupportService {
	return &SupportService{
		supportRepo: supportRepo,
		userRepo:    userRepo,
	}
}

// isAdmin reports whether the user holds the global admin role. The role is
// read fresh so a reassignment takes effect on the next call.
func (s *SupportService) isAdmin(userID uint64) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return authz.IsAdmin(user.Role), nil
}

// CreateRequestInput represents parameters to file a support request.
type CreateRequestInput struct {
	UserID  uint64
	Subject string
	Message string
}

// CreateRequest files a new pending support request.
func (s *SupportService) CreateRequest(input CreateRequestInput) (*models.SupportRequest, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, ErrSupportSubjectRequired
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrSupportMessageRequired
	}

	request := &models.SupportRequest{
		UserID:  input.UserID,
		Subject: subject,
		Message: message,
		Status:  models.SupportStatusPending,
	}

	if err := s.supportRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create support request: %w", err)
	}

	return s.GetRequest(request.ID, input.UserID)
}

// ListRequests returns the caller's tickets, or every ticket for admins.
func (s *SupportService) ListRequests(callerID uint64) ([]models.SupportRequest, error) {
	admin, err := s.isAdmin(callerID)
	if err != nil {
		return nil, err
	}

	var requests []models.SupportRequest
	if admin {
		requests, err = s.supportRepo.List()
	} else {
		requests, err = s.supportRepo.ListByUserID(callerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list support requests: %w", err)
	}
	return requests, nil
}

// GetRequest returns a ticket. Non-admins asking for someone else's ticket
// get not-found, the ticket's existence is not disclosed.
func (s *SupportService) GetRequest(id, callerID uint64) (*models.SupportRequest, error) {
	request, err := s.supportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupportRequestNotFound
		}
		return nil, fmt.Errorf("failed to find support request: %w", err)
	}

	if request.UserID != callerID {
		admin, err := s.isAdmin(callerID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, ErrSupportRequestNotFound
		}
	}

	return request, nil
}

// ResolveRequest closes a ticket as resolved and records who closed it.
func (s *SupportService) ResolveRequest(id, adminID uint64, response string) (*models.SupportRequest, error) {
	return s.closeRequest(id, adminID, models.SupportStatusResolved, response, defaultResolveResponse)
}

// RejectRequest closes a ticket as rejected and records who closed it.
func (s *SupportService) RejectRequest(id, adminID uint64, response string) (*models.SupportRequest, error) {
	return s.closeRequest(id, adminID, models.SupportStatusRejected, response, defaultRejectResponse)
}

func (s *SupportService) closeRequest(id, adminID uint64, status models.SupportStatus, response, fallback string) (*models.SupportRequest, error) {
	request, err := s.supportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupportRequestNotFound
		}
		return nil, fmt.Errorf("failed to find support request: %w", err)
	}

	if strings.TrimSpace(response) == "" {
		response = fallback
	}

	now := time.Now()
	request.Status = status
	request.AdminResponse = response
	request.ResolvedByID = &adminID
	request.ResolvedAt = &now

	if err := s.supportRepo.Update(request); err != nil {
		return nil, fmt.Errorf("failed to update support request: %w", err)
	}

	return s.supportRepo.FindByID(id)
}

// DeleteRequest removes a ticket. Non-admins can only delete their own, and
// someone else's ticket reads as not-found.
func (s *SupportService) DeleteRequest(id, callerID uint64) error {
	if _, err := s.GetRequest(id, callerID); err != nil {
		return err
	}

	if err := s.supportRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete support request: %w", err)
	}
	return nil
}
