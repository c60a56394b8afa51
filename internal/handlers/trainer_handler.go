package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/internal/middleware"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/services"
)

// TrainerHandler serves the bearer-authenticated trainer workspace
type TrainerHandler struct {
	directory  services.DirectoryServiceInterface
	moderation services.ModerationServiceInterface
	requests   services.AccessRequestServiceInterface
}

func NewTrainerHandler(
	directory services.DirectoryServiceInterface,
	moderation services.ModerationServiceInterface,
	requests services.AccessRequestServiceInterface,
) *TrainerHandler {
	return &TrainerHandler{
		directory:  directory,
		moderation: moderation,
		requests:   requests,
	}
}

func (h *TrainerHandler) Students(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resp, err := h.directory.ListStudents(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrainerHandler) Stats(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resp, err := h.directory.TrainerStats(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrainerHandler) RequestPublic(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resp, err := h.moderation.RequestPublicReview(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, err, "Trainer profile not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrainerHandler) RequestAccess(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateAccessRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.requests.CreateRequest(c.Request.Context(), identity.UserID, req.TrainerSlug, req.Message)
	if err != nil {
		respondServiceError(c, err, "Trainer not found")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
