package services

import (
	"context"

	"github.com/gymratia/gymratia-api/internal/models"
)

// ModerationServiceInterface defines the interface for trainer moderation
type ModerationServiceInterface interface {
	ReviewTrainer(ctx context.Context, token string, action models.ReviewAction) (*models.ReviewTrainerResponse, error)
	RequestPublicReview(ctx context.Context, userID string) (*models.RequestPublicResponse, error)
}

// AccessRequestServiceInterface defines the interface for access request operations
type AccessRequestServiceInterface interface {
	ListPending(ctx context.Context) (*models.PendingRequestsResponse, error)
	CreateRequest(ctx context.Context, userID, trainerSlug, message string) (*models.CreateAccessRequestResponse, error)
	ProcessRequest(ctx context.Context, requestID string, action models.ReviewAction) (*models.ProcessAccessRequestResponse, error)
}

// DirectoryServiceInterface defines the interface for portal and workspace listings
type DirectoryServiceInterface interface {
	ListTrainers(ctx context.Context, params models.TrainerListParams) (*models.TrainerListResponse, error)
	ListUsers(ctx context.Context, params models.UserListParams) (*models.UserListResponse, error)
	ListStudents(ctx context.Context, userID string) (*models.StudentsResponse, error)
	TrainerStats(ctx context.Context, userID string) (*models.TrainerStats, error)
}

// EngagementServiceInterface defines the interface for post view counting
type EngagementServiceInterface interface {
	RecordView(ctx context.Context, postID string, viewerID *string) (*models.RecordViewResponse, error)
	CountViews(ctx context.Context, postID string) (*models.ViewCountResponse, error)
}

// InboxServiceInterface defines the interface for the caller's messages
type InboxServiceInterface interface {
	ListMessages(ctx context.Context, userID string) (*models.MessagesResponse, error)
	MarkRead(ctx context.Context, userID, messageID string) (*models.UserMessage, error)
}

// PortalAuthServiceInterface defines the interface for admin portal login
type PortalAuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*models.PortalSession, error)
}

// OverviewProvider returns the admin dashboard counters
type OverviewProvider interface {
	Get(ctx context.Context) (*models.PortalOverview, error)
}

var (
	_ ModerationServiceInterface    = (*ModerationService)(nil)
	_ AccessRequestServiceInterface = (*AccessRequestService)(nil)
	_ DirectoryServiceInterface     = (*DirectoryService)(nil)
	_ EngagementServiceInterface    = (*EngagementService)(nil)
	_ InboxServiceInterface         = (*NotificationService)(nil)
	_ Notifier                      = (*NotificationService)(nil)
	_ PortalAuthServiceInterface    = (*PortalAuthService)(nil)
)
