package services

import (
	"context"
	"strings"
	"time"

	"github.com/gymratia/gymratia-api/config"
	"github.com/gymratia/gymratia-api/internal/models"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/gymratia/gymratia-api/pkg/jwt"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PortalAuthService checks the admin portal credentials
type PortalAuthService struct {
	admin config.AdminCredentials
	now   func() time.Time
}

func NewPortalAuthService(admin config.AdminCredentials) *PortalAuthService {
	return &PortalAuthService{admin: admin, now: time.Now}
}

// Login returns an admin session when email and password match the configured admin
func (s *PortalAuthService) Login(_ context.Context, email, password string) (*models.PortalSession, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.InvalidInputError("email", "is required")
	}
	if password == "" {
		return nil, apperrors.InvalidInputError("password", "is required")
	}

	if !s.admin.Configured() {
		metrics.PortalLogins.WithLabelValues("not_configured").Inc()
		logger.Warn("Portal login attempted but admin credentials are not configured")
		return nil, apperrors.UnauthorizedError("invalid credentials")
	}

	emailOK := jwt.TimingSafeCompare(strings.ToLower(email), strings.ToLower(s.admin.Email))
	passwordOK := s.checkPassword(password)
	if !emailOK || !passwordOK {
		metrics.PortalLogins.WithLabelValues("invalid").Inc()
		logger.Warn("Portal login failed", zap.String("email", email))
		return nil, apperrors.UnauthorizedError("invalid credentials")
	}

	metrics.PortalLogins.WithLabelValues("success").Inc()
	logger.Info("Portal login succeeded", zap.String("email", email))

	return &models.PortalSession{
		Email:     s.admin.Email,
		IsAdmin:   true,
		CreatedAt: s.now().UTC(),
	}, nil
}

func (s *PortalAuthService) checkPassword(password string) bool {
	if s.admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) == nil
	}
	return jwt.TimingSafeCompare(password, s.admin.Password)
}
