package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/repository"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"go.uber.org/zap"
)

// Notifier writes an in-app message as a side effect of a state transition
type Notifier interface {
	Notify(ctx context.Context, userID string, msgType models.MessageType, title, body string) error
}

// NotificationService appends UserMessages and serves the caller's inbox
type NotificationService struct {
	messages repository.MessageStore
}

func NewNotificationService(messages repository.MessageStore) *NotificationService {
	return &NotificationService{messages: messages}
}

// Notify appends an unread message. Callers log and swallow the error.
func (s *NotificationService) Notify(ctx context.Context, userID string, msgType models.MessageType, title, body string) error {
	if _, err := s.messages.CreateUserMessage(ctx, userID, msgType, title, body); err != nil {
		metrics.Notifications.WithLabelValues(string(msgType), "error").Inc()
		return err
	}

	metrics.Notifications.WithLabelValues(string(msgType), "success").Inc()
	logger.Debug("Notification written",
		zap.String("user_id", userID),
		zap.String("type", string(msgType)))
	return nil
}

// ListMessages returns the caller's messages newest first
func (s *NotificationService) ListMessages(ctx context.Context, userID string) (*models.MessagesResponse, error) {
	messages, err := s.messages.ListUserMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, m := range messages {
		if m.ReadAt == nil {
			unread++
		}
	}

	return &models.MessagesResponse{Messages: messages, Unread: unread}, nil
}

// MarkRead marks one of the caller's own messages as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, messageID string) (*models.UserMessage, error) {
	messageID = strings.TrimSpace(messageID)
	if _, err := uuid.Parse(messageID); err != nil {
		return nil, apperrors.InvalidInputError("id", "must be a valid message id")
	}

	return s.messages.MarkUserMessageRead(ctx, userID, messageID)
}

// notifyBestEffort logs a failed notification instead of failing the transition that caused it
func notifyBestEffort(ctx context.Context, notifier Notifier, userID string, msgType models.MessageType, title, body string) {
	if err := notifier.Notify(ctx, userID, msgType, title, body); err != nil {
		logger.Error("Failed to write notification",
			zap.String("user_id", userID),
			zap.String("type", string(msgType)),
			zap.Error(err))
	}
}
