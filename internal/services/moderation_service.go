package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/gymratia/gymratia-api/config"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/repository"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/gymratia/gymratia-api/pkg/httpclient"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"github.com/gymratia/gymratia-api/pkg/trigger"
	"go.uber.org/zap"
)

const reviewRequestedEventType = "trainer_review_requested"

type reviewNotification struct {
	msgType models.MessageType
	title   string
	body    string
	reply   string
}

var reviewNotifications = map[models.ReviewAction]reviewNotification{
	models.ReviewActionApprove: {
		msgType: models.MessageTrainerReviewApproved,
		title:   "Public trainer request approved",
		body:    "Congratulations, your request to become a public trainer has been approved. You are now listed in the app.",
		reply:   "Trainer approved and now public",
	},
	models.ReviewActionReject: {
		msgType: models.MessageTrainerReviewRejected,
		title:   "Public trainer request rejected",
		body:    "Sorry, your trainer request has been rejected. Review and improve the data you provided and try again.",
		reply:   "Trainer request rejected",
	},
}

// MissingFieldsError lists the profile fields a trainer still has to fill
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// ModerationService owns the trainer visibility lifecycle
type ModerationService struct {
	trainers   repository.TrainerStore
	notifier   Notifier
	config     *config.Config
	httpClient httpclient.Client
	newToken   func() (string, error)
}

func NewModerationService(
	trainers repository.TrainerStore,
	notifier Notifier,
	cfg *config.Config,
	httpClient httpclient.Client,
) *ModerationService {
	return &ModerationService{
		trainers:   trainers,
		notifier:   notifier,
		config:     cfg,
		httpClient: httpClient,
		newToken:   generateReviewToken,
	}
}

// ReviewTrainer consumes a single-use moderation token and moves the trainer out of
// PENDING_REVIEW. The transition is committed before the owner is notified.
func (s *ModerationService) ReviewTrainer(ctx context.Context, token string, action models.ReviewAction) (*models.ReviewTrainerResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.InvalidInputError("token", "is required")
	}
	if !action.IsValid() {
		return nil, apperrors.InvalidInputError("action", "must be approve or reject")
	}

	reviewed, err := s.trainers.TransitionByReviewToken(ctx, token, action.TargetStatus())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			err = s.classifyFailedReview(ctx, token)
		}
		metrics.TrainerReviews.WithLabelValues(string(action), reviewResult(err)).Inc()
		return nil, err
	}

	metrics.TrainerReviews.WithLabelValues(string(action), "success").Inc()
	logger.Info("Trainer reviewed",
		zap.String("trainer_id", reviewed.ID),
		zap.String("slug", reviewed.Slug),
		zap.String("action", string(action)),
		zap.String("status", string(reviewed.VisibilityStatus)))

	n := reviewNotifications[action]
	notifyBestEffort(ctx, s.notifier, reviewed.UserID, n.msgType, n.title, n.body)

	return &models.ReviewTrainerResponse{
		Success: true,
		Message: n.reply,
		Trainer: reviewed,
	}, nil
}

// classifyFailedReview tells a consumed or unknown token apart from one whose trainer
// has already left PENDING_REVIEW
func (s *ModerationService) classifyFailedReview(ctx context.Context, token string) error {
	status, err := s.trainers.StatusByReviewToken(ctx, token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFoundError("review token")
		}
		return err
	}

	if status != models.VisibilityPendingReview {
		return apperrors.AlreadyProcessedError("trainer review")
	}
	return apperrors.NotFoundError("review token")
}

func reviewResult(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrAlreadyProcessed):
		return "already_processed"
	default:
		return "error"
	}
}

// RequestPublicReview puts the caller's trainer profile into PENDING_REVIEW with a fresh
// moderation token and hands the review link to the admin pipeline
func (s *ModerationService) RequestPublicReview(ctx context.Context, userID string) (*models.RequestPublicResponse, error) {
	trainer, err := s.trainers.GetTrainerByUserID(ctx, userID)
	if err != nil {
		metrics.PublicReviewRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	switch trainer.VisibilityStatus {
	case models.VisibilityPendingReview:
		metrics.PublicReviewRequests.WithLabelValues("already_pending").Inc()
		return nil, apperrors.AlreadyProcessedError("review already pending")
	case models.VisibilityPublic:
		metrics.PublicReviewRequests.WithLabelValues("already_public").Inc()
		return nil, apperrors.AlreadyProcessedError("trainer is already public")
	}

	if missing := trainer.MissingPublicFields(); len(missing) > 0 {
		metrics.PublicReviewRequests.WithLabelValues("incomplete").Inc()
		return nil, &MissingFieldsError{Fields: missing}
	}

	token, err := s.newToken()
	if err != nil {
		logger.Error("Failed to generate review token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate review token: %w", err)
	}

	requestedAt, err := s.trainers.MarkPendingReview(ctx, trainer.ID, token)
	if err != nil {
		metrics.PublicReviewRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.PublicReviewRequests.WithLabelValues("success").Inc()
	logger.Info("Trainer requested public review",
		zap.String("trainer_id", trainer.ID),
		zap.String("slug", trainer.Slug))

	s.announceReviewRequest(trainer, token)

	return &models.RequestPublicResponse{
		Success:          true,
		Message:          "Review requested. An administrator will review your profile.",
		VisibilityStatus: models.VisibilityPendingReview,
		RequestedAt:      requestedAt,
	}, nil
}

func (s *ModerationService) announceReviewRequest(trainer *models.Trainer, token string) {
	reviewURL := fmt.Sprintf("%s/admin/review-trainer?token=%s", s.config.App.PublicURL, url.QueryEscape(token))

	if webhook := s.config.EventTriggers.TrainerReviewRequestedURL; webhook != "" {
		trigger.CallAsyncWithPayload(webhook, models.ReviewRequestedEvent{
			Type:         reviewRequestedEventType,
			TrainerID:    trainer.ID,
			TrainerName:  trainer.TrainerName,
			TrainerEmail: derefString(trainer.Email),
			ReviewURL:    reviewURL,
		}, s.httpClient)
		return
	}

	if s.config.IsDevelopment() {
		logger.Info("=== DEVELOPMENT TRAINER REVIEW URL ===",
			zap.String("trainer_id", trainer.ID),
			zap.String("trainer_name", trainer.TrainerName),
			zap.String("review_url", reviewURL))
	}
}

func generateReviewToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
