package services_test

import (
	"context"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockTrainerStore is a mock implementation of repository.TrainerStore
type MockTrainerStore struct {
	mock.Mock
}

func (m *MockTrainerStore) TransitionByReviewToken(ctx context.Context, token string, target models.VisibilityStatus) (*models.ReviewedTrainer, error) {
	args := m.Called(ctx, token, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewedTrainer), args.Error(1)
}

func (m *MockTrainerStore) StatusByReviewToken(ctx context.Context, token string) (models.VisibilityStatus, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.VisibilityStatus), args.Error(1)
}

func (m *MockTrainerStore) MarkPendingReview(ctx context.Context, trainerID, token string) (time.Time, error) {
	args := m.Called(ctx, trainerID, token)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockTrainerStore) GetTrainerByUserID(ctx context.Context, userID string) (*models.Trainer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}

func (m *MockTrainerStore) GetTrainerBySlug(ctx context.Context, slug string) (*models.Trainer, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}

func (m *MockTrainerStore) GetTrainersByIDs(ctx context.Context, ids []string) ([]*models.Trainer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trainer), args.Error(1)
}

func (m *MockTrainerStore) ListTrainers(ctx context.Context, params models.TrainerListParams) ([]*models.Trainer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trainer), args.Error(1)
}

// MockAccessRequestStore is a mock implementation of repository.AccessRequestStore
type MockAccessRequestStore struct {
	mock.Mock
}

func (m *MockAccessRequestStore) CreateAccessRequest(ctx context.Context, userID, trainerID, message string) (*models.AccessRequest, error) {
	args := m.Called(ctx, userID, trainerID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestStore) ResolveAccessRequest(ctx context.Context, id string, status models.AccessRequestStatus) (*models.AccessRequest, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestStore) GetAccessRequest(ctx context.Context, id string) (*models.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestStore) ListPendingAccessRequests(ctx context.Context) ([]*models.AccessRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccessRequest), args.Error(1)
}

// MockMessageStore is a mock implementation of repository.MessageStore
type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) CreateUserMessage(ctx context.Context, userID string, msgType models.MessageType, title, body string) (*models.UserMessage, error) {
	args := m.Called(ctx, userID, msgType, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMessage), args.Error(1)
}

func (m *MockMessageStore) ListUserMessages(ctx context.Context, userID string) ([]*models.UserMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserMessage), args.Error(1)
}

func (m *MockMessageStore) MarkUserMessageRead(ctx context.Context, userID, messageID string) (*models.UserMessage, error) {
	args := m.Called(ctx, userID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMessage), args.Error(1)
}

// MockPostViewStore is a mock implementation of repository.PostViewStore
type MockPostViewStore struct {
	mock.Mock
}

func (m *MockPostViewStore) InsertPostView(ctx context.Context, view models.PostView) (bool, error) {
	args := m.Called(ctx, view)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostViewStore) CountPostViews(ctx context.Context, postID string) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileStore is a mock implementation of repository.ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) SearchProfiles(ctx context.Context, query string) ([]*models.UserProfile, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserProfile), args.Error(1)
}

func (m *MockProfileStore) GetProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileStore) GetProfilesByUserIDs(ctx context.Context, userIDs []string) ([]*models.UserProfile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserProfile), args.Error(1)
}

// MockChatLinkStore is a mock implementation of repository.ChatLinkStore
type MockChatLinkStore struct {
	mock.Mock
}

func (m *MockChatLinkStore) GetChatLinksByUserIDs(ctx context.Context, userIDs []string) ([]*models.TrainerChatLink, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrainerChatLink), args.Error(1)
}

func (m *MockChatLinkStore) GetChatLinksByTrainerSlug(ctx context.Context, slug string) ([]*models.TrainerChatLink, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrainerChatLink), args.Error(1)
}

func (m *MockChatLinkStore) CountStudentsByTrainerSlug(ctx context.Context, slug string) (int, error) {
	args := m.Called(ctx, slug)
	return args.Int(0), args.Error(1)
}

// MockNotifier is a mock implementation of services.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, msgType models.MessageType, title, body string) error {
	args := m.Called(ctx, userID, msgType, title, body)
	return args.Error(0)
}
