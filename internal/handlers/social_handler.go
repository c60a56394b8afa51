package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/internal/middleware"
	"github.com/gymratia/gymratia-api/internal/services"
)

// SocialHandler serves post view counters
type SocialHandler struct {
	service services.EngagementServiceInterface
}

func NewSocialHandler(service services.EngagementServiceInterface) *SocialHandler {
	return &SocialHandler{service: service}
}

// RecordView counts a view for ?postId=, attributed to the caller when authenticated
func (h *SocialHandler) RecordView(c *gin.Context) {
	resp, err := h.service.RecordView(c.Request.Context(), c.Query("postId"), middleware.OptionalUserID(c))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SocialHandler) CountViews(c *gin.Context) {
	resp, err := h.service.CountViews(c.Request.Context(), c.Query("postId"))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}
