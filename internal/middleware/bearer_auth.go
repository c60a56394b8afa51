package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymratia/gymratia-api/pkg/jwt"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"go.uber.org/zap"
)

// IdentityContextKey stores the resolved bearer identity in request context
const IdentityContextKey = "identity"

var ErrIdentityNotFound = errors.New("identity not found in context")

// IdentityResolver turns an access token into the calling user
type IdentityResolver interface {
	ResolveIdentity(token string) (*jwt.Identity, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// BearerAuthMiddleware requires a valid bearer token
func BearerAuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			_ = c.Error(fmt.Errorf("missing bearer token")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		identity, err := resolver.ResolveIdentity(token)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid bearer token: %w", err)) //nolint:errcheck
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// OptionalBearerAuthMiddleware resolves the caller when a valid token is present.
// Requests without one, or with an invalid one, continue anonymously.
func OptionalBearerAuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			identity, err := resolver.ResolveIdentity(token)
			if err == nil {
				c.Set(IdentityContextKey, identity)
			} else {
				logger.Debug("Ignoring invalid optional bearer token",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			}
		}
		c.Next()
	}
}

// GetIdentity returns the bearer identity stored by the auth middleware
func GetIdentity(c *gin.Context) (*jwt.Identity, error) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return nil, ErrIdentityNotFound
	}

	identity, ok := val.(*jwt.Identity)
	if !ok {
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}

// OptionalUserID returns the caller's user id or nil for anonymous requests
func OptionalUserID(c *gin.Context) *string {
	identity, err := GetIdentity(c)
	if err != nil {
		return nil
	}
	id := identity.UserID
	return &id
}
