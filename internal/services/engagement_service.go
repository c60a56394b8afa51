package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/repository"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/gymratia/gymratia-api/pkg/metrics"
)

// EngagementService counts post views, at most one per viewer per UTC hour
type EngagementService struct {
	views repository.PostViewStore
	now   func() time.Time
}

func NewEngagementService(views repository.PostViewStore) *EngagementService {
	return &EngagementService{views: views, now: time.Now}
}

// RecordView stores a view. A repeat within the hour is a success with Counted=false.
func (s *EngagementService) RecordView(ctx context.Context, postID string, viewerID *string) (*models.RecordViewResponse, error) {
	postID, err := validatePostID(postID)
	if err != nil {
		return nil, err
	}

	viewer := "anonymous"
	if viewerID != nil {
		viewer = "user"
	}

	counted, err := s.views.InsertPostView(ctx, models.NewPostView(postID, viewerID, s.now()))
	if err != nil {
		metrics.PostViews.WithLabelValues("error", viewer).Inc()
		return nil, err
	}

	if !counted {
		metrics.PostViews.WithLabelValues("duplicate", viewer).Inc()
		return &models.RecordViewResponse{
			Success: true,
			Counted: false,
			Message: "View already registered for this hour",
		}, nil
	}

	metrics.PostViews.WithLabelValues("counted", viewer).Inc()
	return &models.RecordViewResponse{
		Success: true,
		Counted: true,
		Message: "View recorded",
	}, nil
}

// CountViews returns the number of stored views for a post
func (s *EngagementService) CountViews(ctx context.Context, postID string) (*models.ViewCountResponse, error) {
	postID, err := validatePostID(postID)
	if err != nil {
		return nil, err
	}

	views, err := s.views.CountPostViews(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.ViewCountResponse{PostID: postID, Views: views}, nil
}

func validatePostID(postID string) (string, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return "", apperrors.InvalidInputError("postId", "is required")
	}
	if _, err := uuid.Parse(postID); err != nil {
		return "", apperrors.InvalidInputError("postId", "must be a valid post id")
	}
	return postID, nil
}
