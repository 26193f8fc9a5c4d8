package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// SupportHandler exposes the support ticket endpoints. Users file and follow
// their own tickets; administrators see and close all of them.
type SupportHandler struct {
	supportService *services.SupportService
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(supportService *services.SupportService) *SupportHandler {
	return &SupportHandler{
		supportService: supportService,
	}
}

// CreateRequest files a new support request for the caller.
func (h *SupportHandler) CreateRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateSupportRequest struct {
		Subject string `json:"subject" binding:"required"`
		Message string `json:"message" binding:"required"`
	}

	var req CreateSupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide subject and message")
		return
	}

	request, err := h.supportService.CreateRequest(services.CreateRequestInput{
		UserID:  userID,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondSupportError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToSupportRequestDTO(*request))
}

// ListRequests returns the caller's tickets, or all tickets for admins.
func (h *SupportHandler) ListRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	requests, err := h.supportService.ListRequests(userID)
	if err != nil {
		respondSupportError(c, err)
		return
	}

	respondList(c, dto.ToSupportRequestDTOs(requests), len(requests))
}

// GetRequest returns a single ticket visible to the caller.
func (h *SupportHandler) GetRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.supportService.GetRequest(id, userID)
	if err != nil {
		respondSupportError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToSupportRequestDTO(*request))
}

// ResolveRequest closes a ticket as resolved.
func (h *SupportHandler) ResolveRequest(c *gin.Context) {
	h.closeRequest(c, true)
}

// RejectRequest closes a ticket as rejected.
func (h *SupportHandler) RejectRequest(c *gin.Context) {
	h.closeRequest(c, false)
}

func (h *SupportHandler) closeRequest(c *gin.Context, resolve bool) {
	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type CloseSupportRequest struct {
		AdminResponse string `json:"admin_response"`
	}

	// The response note is optional, an empty body means the default note.
	var req CloseSupportRequest
	_ = c.ShouldBindJSON(&req)

	var (
		updated *models.SupportRequest
		err     error
	)
	if resolve {
		updated, err = h.supportService.ResolveRequest(id, adminID, req.AdminResponse)
	} else {
		updated, err = h.supportService.RejectRequest(id, adminID, req.AdminResponse)
	}
	if err != nil {
		respondSupportError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToSupportRequestDTO(*updated))
}

// DeleteRequest removes a ticket the caller may see.
func (h *SupportHandler) DeleteRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.supportService.DeleteRequest(id, userID); err != nil {
		respondSupportError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

func respondSupportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSupportRequestNotFound):
		apierrors.NotFound(c, "Support request not found")
	case errors.Is(err, services.ErrSupportSubjectRequired),
		errors.Is(err, services.ErrSupportMessageRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to process support request")
	}
}
