package middleware

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/gymratia/gymratia-api/internal/models"
	"golang.org/x/crypto/hkdf"
)

const (
	// PortalSessionCookieName is the encrypted admin portal cookie
	PortalSessionCookieName = "portal_session"

	// PortalSessionContextKey stores the authenticated portal session in request context
	PortalSessionContextKey = "portal_session"

	sessionKeyEmail     = "email"
	sessionKeyIsAdmin   = "isAdmin"
	sessionKeyCreatedAt = "createdAt"
)

var (
	ErrPortalSessionNotFound = errors.New("portal session not found in context")
	ErrInvalidPortalSession  = errors.New("invalid portal session")
)

// PortalSessionStore reads and writes the AES-encrypted, HMAC-signed portal cookie
type PortalSessionStore struct {
	store *sessions.CookieStore
}

// NewPortalSessionStore derives separate signing and encryption keys from secret
func NewPortalSessionStore(secret string, ttl time.Duration, domain string, secure bool) (*PortalSessionStore, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}

	hashKey, err := deriveKey(secret, "portal-session-hash", 64)
	if err != nil {
		return nil, err
	}
	blockKey, err := deriveKey(secret, "portal-session-block", 32)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(ttl.Seconds()))

	return &PortalSessionStore{store: store}, nil
}

func deriveKey(secret, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return key, nil
}

// Save writes session into a fresh cookie
func (s *PortalSessionStore) Save(c *gin.Context, session *models.PortalSession) error {
	sess, _ := s.store.New(c.Request, PortalSessionCookieName) //nolint:errcheck // a stale cookie is replaced
	sess.Values[sessionKeyEmail] = session.Email
	sess.Values[sessionKeyIsAdmin] = session.IsAdmin
	sess.Values[sessionKeyCreatedAt] = session.CreatedAt.Unix()
	return sess.Save(c.Request, c.Writer)
}

// Clear expires the cookie
func (s *PortalSessionStore) Clear(c *gin.Context) error {
	sess, _ := s.store.New(c.Request, PortalSessionCookieName) //nolint:errcheck
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}

// Load decodes the cookie on r. A missing, tampered, or expired cookie is ErrInvalidPortalSession.
func (s *PortalSessionStore) Load(r *http.Request) (*models.PortalSession, error) {
	sess, err := s.store.Get(r, PortalSessionCookieName)
	if err != nil || sess.IsNew {
		return nil, ErrInvalidPortalSession
	}

	email, _ := sess.Values[sessionKeyEmail].(string)
	isAdmin, _ := sess.Values[sessionKeyIsAdmin].(bool)
	createdAt, _ := sess.Values[sessionKeyCreatedAt].(int64)
	if email == "" || !isAdmin {
		return nil, ErrInvalidPortalSession
	}

	return &models.PortalSession{
		Email:     email,
		IsAdmin:   isAdmin,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}

// Middleware requires an admin portal session and stores it in context
func (s *PortalSessionStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.Load(c.Request)
		if err != nil {
			_ = c.Error(err) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(PortalSessionContextKey, session)
		c.Next()
	}
}

// GetPortalSession extracts the portal session from context
func GetPortalSession(c *gin.Context) (*models.PortalSession, error) {
	val, exists := c.Get(PortalSessionContextKey)
	if !exists {
		return nil, ErrPortalSessionNotFound
	}

	session, ok := val.(*models.PortalSession)
	if !ok {
		return nil, ErrInvalidPortalSession
	}

	return session, nil
}
