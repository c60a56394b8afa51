package repository

import (
	"context"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
)

// Every store method touches exactly one table. Failures of the backing store are
// wrapped with errors.ErrUpstream; missing rows are errors.ErrNotFound.

// TrainerStore is the only writer of trainer rows
type TrainerStore interface {
	// TransitionByReviewToken moves the trainer holding token from PENDING_REVIEW to target
	// and clears the token in one conditional update. No matching row is ErrNotFound.
	TransitionByReviewToken(ctx context.Context, token string, target models.VisibilityStatus) (*models.ReviewedTrainer, error)

	// StatusByReviewToken reads the visibility status of the trainer holding token
	StatusByReviewToken(ctx context.Context, token string) (models.VisibilityStatus, error)

	// MarkPendingReview stores a fresh review token unless the trainer is already
	// PENDING_REVIEW or PUBLIC, in which case it returns ErrAlreadyProcessed.
	MarkPendingReview(ctx context.Context, trainerID, token string) (time.Time, error)

	GetTrainerByUserID(ctx context.Context, userID string) (*models.Trainer, error)
	GetTrainerBySlug(ctx context.Context, slug string) (*models.Trainer, error)
	GetTrainersByIDs(ctx context.Context, ids []string) ([]*models.Trainer, error)
	ListTrainers(ctx context.Context, params models.TrainerListParams) ([]*models.Trainer, error)
}

// AccessRequestStore tracks alumni access requests
type AccessRequestStore interface {
	// CreateAccessRequest returns ErrConflict when a pending request already exists
	CreateAccessRequest(ctx context.Context, userID, trainerID, message string) (*models.AccessRequest, error)

	// ResolveAccessRequest moves a pending request to status. No pending row is ErrNotFound.
	ResolveAccessRequest(ctx context.Context, id string, status models.AccessRequestStatus) (*models.AccessRequest, error)

	GetAccessRequest(ctx context.Context, id string) (*models.AccessRequest, error)
	ListPendingAccessRequests(ctx context.Context) ([]*models.AccessRequest, error)
}

// MessageStore persists in-app notifications
type MessageStore interface {
	CreateUserMessage(ctx context.Context, userID string, msgType models.MessageType, title, body string) (*models.UserMessage, error)
	ListUserMessages(ctx context.Context, userID string) ([]*models.UserMessage, error)
	MarkUserMessageRead(ctx context.Context, userID, messageID string) (*models.UserMessage, error)
}

// PostViewStore records deduplicated views
type PostViewStore interface {
	// InsertPostView returns false without error when the view was already counted this hour
	InsertPostView(ctx context.Context, view models.PostView) (bool, error)
	CountPostViews(ctx context.Context, postID string) (int64, error)
}

// ProfileStore reads user profiles
type ProfileStore interface {
	SearchProfiles(ctx context.Context, query string) ([]*models.UserProfile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []string) ([]*models.UserProfile, error)
}

// ChatLinkStore reads trainer chat links
type ChatLinkStore interface {
	GetChatLinksByUserIDs(ctx context.Context, userIDs []string) ([]*models.TrainerChatLink, error)
	GetChatLinksByTrainerSlug(ctx context.Context, slug string) ([]*models.TrainerChatLink, error)
	CountStudentsByTrainerSlug(ctx context.Context, slug string) (int, error)
}

// OverviewStore computes the admin dashboard counters
type OverviewStore interface {
	CountOverview(ctx context.Context, chatsSince time.Time) (*models.PortalOverview, error)
}
