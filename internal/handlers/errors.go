package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/internal/services"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps a service error to its HTTP status. notFound overrides the
// 404 message when the resource deserves a specific one.
func respondServiceError(c *gin.Context, err error, notFound string) {
	var missing *services.MissingFieldsError

	switch {
	case errors.As(err, &missing):
		respondErrorWithDetails(c, http.StatusBadRequest, "Missing required fields",
			gin.H{"missingFields": missing.Fields}, err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid input", invalidInputReason(err), err)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	case apperrors.Is(err, apperrors.ErrNotFound):
		if notFound == "" {
			notFound = "Not found"
		}
		respondError(c, http.StatusNotFound, notFound, err)
	case apperrors.Is(err, apperrors.ErrAlreadyProcessed):
		respondError(c, http.StatusConflict, "This request has already been processed", err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, "A pending request already exists", err)
	case apperrors.Is(err, apperrors.ErrUpstream):
		respondError(c, http.StatusBadGateway, "Upstream service error", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// invalidInputReason strips the sentinel suffix so "postId: is required: invalid input"
// becomes "postId: is required"
func invalidInputReason(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+apperrors.ErrInvalidInput.Error())
}
