package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/internal/middleware"
	"github.com/gymratia/gymratia-api/internal/services"
)

// MessagesHandler serves the caller's in-app inbox
type MessagesHandler struct {
	service services.InboxServiceInterface
}

func NewMessagesHandler(service services.InboxServiceInterface) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) List(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resp, err := h.service.ListMessages(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MessagesHandler) MarkRead(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	message, err := h.service.MarkRead(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Message not found")
		return
	}
	c.JSON(http.StatusOK, message)
}
