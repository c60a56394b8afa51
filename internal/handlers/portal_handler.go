package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/internal/middleware"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/services"
)

// SessionStore persists the portal session cookie
type SessionStore interface {
	Save(c *gin.Context, session *models.PortalSession) error
	Clear(c *gin.Context) error
}

// PortalHandler serves the admin portal
type PortalHandler struct {
	auth      services.PortalAuthServiceInterface
	sessions  SessionStore
	overview  services.OverviewProvider
	directory services.DirectoryServiceInterface
	requests  services.AccessRequestServiceInterface
}

func NewPortalHandler(
	auth services.PortalAuthServiceInterface,
	sessions SessionStore,
	overview services.OverviewProvider,
	directory services.DirectoryServiceInterface,
	requests services.AccessRequestServiceInterface,
) *PortalHandler {
	return &PortalHandler{
		auth:      auth,
		sessions:  sessions,
		overview:  overview,
		directory: directory,
		requests:  requests,
	}
}

func (h *PortalHandler) Login(c *gin.Context) {
	var req models.PortalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}

	if err := h.sessions.Save(c, session); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	c.JSON(http.StatusOK, models.PortalLoginResponse{Success: true, Session: session})
}

func (h *PortalHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to clear session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PortalHandler) Session(c *gin.Context) {
	session, err := middleware.GetPortalSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *PortalHandler) Overview(c *gin.Context) {
	overview, err := h.overview.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *PortalHandler) ListTrainers(c *gin.Context) {
	params := models.ParseTrainerListParams(c.Request.URL.Query())

	resp, err := h.directory.ListTrainers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortalHandler) ListUsers(c *gin.Context) {
	params := models.ParseUserListParams(c.Request.URL.Query())

	resp, err := h.directory.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortalHandler) ListRequests(c *gin.Context) {
	resp, err := h.requests.ListPending(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortalHandler) ProcessRequest(c *gin.Context) {
	var req models.ProcessAccessRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.requests.ProcessRequest(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		respondServiceError(c, err, "Access request not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}
