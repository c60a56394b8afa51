package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/services"
)

// ModerationHandler serves the admin review link
type ModerationHandler struct {
	service services.ModerationServiceInterface
}

func NewModerationHandler(service services.ModerationServiceInterface) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// ReviewTrainer consumes a moderation token. The token is the only credential.
func (h *ModerationHandler) ReviewTrainer(c *gin.Context) {
	var req models.ReviewTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.service.ReviewTrainer(c.Request.Context(), req.Token, req.Action)
	if err != nil {
		respondServiceError(c, err, "Invalid or expired token")
		return
	}

	c.JSON(http.StatusOK, resp)
}
