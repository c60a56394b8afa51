package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gymratia/gymratia-api/internal/models"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
)

// memoryTrainerStore applies the review transition as a compare-and-swap under a lock
type memoryTrainerStore struct {
	MockTrainerStore
	mu       sync.Mutex
	trainers map[string]*models.Trainer
}

func newMemoryTrainerStore(trainers ...*models.Trainer) *memoryTrainerStore {
	s := &memoryTrainerStore{trainers: map[string]*models.Trainer{}}
	for _, t := range trainers {
		s.trainers[t.ID] = t
	}
	return s
}

func (s *memoryTrainerStore) TransitionByReviewToken(_ context.Context, token string, target models.VisibilityStatus) (*models.ReviewedTrainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.trainers {
		if t.AdminReviewToken == nil || *t.AdminReviewToken != token || t.VisibilityStatus != models.VisibilityPendingReview {
			continue
		}
		now := time.Now().UTC()
		t.VisibilityStatus = target
		t.AdminReviewToken = nil
		t.ReviewedAt = &now
		return &models.ReviewedTrainer{
			ID:               t.ID,
			UserID:           t.UserID,
			Slug:             t.Slug,
			TrainerName:      t.TrainerName,
			VisibilityStatus: t.VisibilityStatus,
			ReviewedAt:       now,
		}, nil
	}
	return nil, apperrors.NotFoundError("review token")
}

func (s *memoryTrainerStore) StatusByReviewToken(_ context.Context, token string) (models.VisibilityStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.trainers {
		if t.AdminReviewToken != nil && *t.AdminReviewToken == token {
			return t.VisibilityStatus, nil
		}
	}
	return "", apperrors.NotFoundError("trainer")
}

func (s *memoryTrainerStore) get(id string) models.Trainer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.trainers[id]
}

// memoryMessageStore keeps messages in insertion order
type memoryMessageStore struct {
	mu       sync.Mutex
	messages []*models.UserMessage
}

func (s *memoryMessageStore) CreateUserMessage(_ context.Context, userID string, msgType models.MessageType, title, body string) (*models.UserMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &models.UserMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      msgType,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *memoryMessageStore) ListUserMessages(_ context.Context, userID string) ([]*models.UserMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.UserMessage{}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].UserID == userID {
			out = append(out, s.messages[i])
		}
	}
	return out, nil
}

func (s *memoryMessageStore) MarkUserMessageRead(_ context.Context, userID, messageID string) (*models.UserMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if m.ID == messageID && m.UserID == userID {
			if m.ReadAt == nil {
				now := time.Now().UTC()
				m.ReadAt = &now
			}
			return m, nil
		}
	}
	return nil, apperrors.NotFoundError("message")
}
