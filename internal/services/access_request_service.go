package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/projector"
	"github.com/gymratia/gymratia-api/internal/repository"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"go.uber.org/zap"
)

const fallbackRequesterName = "A user"

// AccessRequestService manages alumni requests to join a REQUEST_ACCESS trainer
type AccessRequestService struct {
	requests repository.AccessRequestStore
	trainers repository.TrainerStore
	profiles repository.ProfileStore
	notifier Notifier
}

func NewAccessRequestService(
	requests repository.AccessRequestStore,
	trainers repository.TrainerStore,
	profiles repository.ProfileStore,
	notifier Notifier,
) *AccessRequestService {
	return &AccessRequestService{
		requests: requests,
		trainers: trainers,
		profiles: profiles,
		notifier: notifier,
	}
}

// ListPending returns pending requests newest first, each with its trainer summary
func (s *AccessRequestService) ListPending(ctx context.Context) (*models.PendingRequestsResponse, error) {
	requests, err := s.requests.ListPendingAccessRequests(ctx)
	if err != nil {
		return nil, err
	}

	trainers, err := projector.One(ctx, "access_request_trainer", requests,
		func(r *models.AccessRequest) string { return r.TrainerID },
		s.trainers.GetTrainersByIDs,
		func(t *models.Trainer) string { return t.ID },
	)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingAccessRequest, 0, len(requests))
	for _, r := range requests {
		item := models.PendingAccessRequest{AccessRequest: r}
		if t, ok := trainers[r.TrainerID]; ok {
			item.Trainer = &models.RequestTrainer{
				ID:          t.ID,
				Slug:        t.Slug,
				TrainerName: t.TrainerName,
				Email:       t.Email,
			}
		}
		pending = append(pending, item)
	}

	return &models.PendingRequestsResponse{Requests: pending}, nil
}

// CreateRequest files a pending request from userID to the trainer with trainerSlug
func (s *AccessRequestService) CreateRequest(ctx context.Context, userID, trainerSlug, message string) (*models.CreateAccessRequestResponse, error) {
	trainerSlug = strings.TrimSpace(trainerSlug)
	if trainerSlug == "" {
		return nil, apperrors.InvalidInputError("trainerSlug", "is required")
	}

	trainer, err := s.trainers.GetTrainerBySlug(ctx, trainerSlug)
	if err != nil {
		metrics.AccessRequestsCreated.WithLabelValues(createResult(err)).Inc()
		return nil, err
	}
	if !trainer.IsActive {
		metrics.AccessRequestsCreated.WithLabelValues("not_found").Inc()
		return nil, apperrors.NotFoundError("trainer")
	}
	if trainer.VisibilityStatus != models.VisibilityRequestAccess {
		metrics.AccessRequestsCreated.WithLabelValues("invalid").Inc()
		return nil, apperrors.InvalidInputError("trainerSlug", "trainer does not accept access requests")
	}
	if trainer.UserID == userID {
		metrics.AccessRequestsCreated.WithLabelValues("invalid").Inc()
		return nil, apperrors.InvalidInputError("trainerSlug", "cannot request access to your own trainer")
	}

	request, err := s.requests.CreateAccessRequest(ctx, userID, trainer.ID, strings.TrimSpace(message))
	if err != nil {
		metrics.AccessRequestsCreated.WithLabelValues(createResult(err)).Inc()
		return nil, err
	}

	metrics.AccessRequestsCreated.WithLabelValues("success").Inc()
	logger.Info("Access request created",
		zap.String("request_id", request.ID),
		zap.String("trainer_id", trainer.ID),
		zap.String("user_id", userID))

	requester := s.requesterName(ctx, userID)
	notifyBestEffort(ctx, s.notifier, trainer.UserID, models.MessageAccessRequestReceived,
		"New access request",
		requester+" asked to join your "+trainer.TrainerName+" workspace.")

	return &models.CreateAccessRequestResponse{
		Success: true,
		ID:      request.ID,
		Status:  request.Status,
	}, nil
}

func (s *AccessRequestService) requesterName(ctx context.Context, userID string) string {
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Failed to load requester profile", zap.String("user_id", userID), zap.Error(err))
		}
		return fallbackRequesterName
	}
	if name := profile.DisplayName(); name != "" {
		return name
	}
	return fallbackRequesterName
}

func createResult(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrConflict):
		return "duplicate"
	default:
		return "error"
	}
}

// ProcessRequest approves or rejects a pending request and notifies the requester
func (s *AccessRequestService) ProcessRequest(ctx context.Context, requestID string, action models.ReviewAction) (*models.ProcessAccessRequestResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, apperrors.InvalidInputError("id", "must be a valid request id")
	}
	if !action.IsValid() {
		return nil, apperrors.InvalidInputError("action", "must be approve or reject")
	}

	request, err := s.requests.ResolveAccessRequest(ctx, requestID, models.AccessRequestStatusFor(action))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			err = s.classifyFailedResolve(ctx, requestID)
		}
		metrics.AccessRequestsProcessed.WithLabelValues(string(action), reviewResult(err)).Inc()
		return nil, err
	}

	metrics.AccessRequestsProcessed.WithLabelValues(string(action), "success").Inc()
	logger.Info("Access request processed",
		zap.String("request_id", request.ID),
		zap.String("status", string(request.Status)))

	trainerName := "the trainer"
	if trainers, err := s.trainers.GetTrainersByIDs(ctx, []string{request.TrainerID}); err == nil && len(trainers) > 0 {
		trainerName = trainers[0].TrainerName
	}

	if action == models.ReviewActionApprove {
		notifyBestEffort(ctx, s.notifier, request.UserID, models.MessageAccessRequestApproved,
			"Access request approved",
			"Your request to join "+trainerName+" has been approved.")
	} else {
		notifyBestEffort(ctx, s.notifier, request.UserID, models.MessageAccessRequestRejected,
			"Access request rejected",
			"Your request to join "+trainerName+" has been rejected.")
	}

	return &models.ProcessAccessRequestResponse{Success: true, Request: request}, nil
}

func (s *AccessRequestService) classifyFailedResolve(ctx context.Context, requestID string) error {
	existing, err := s.requests.GetAccessRequest(ctx, requestID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFoundError("access request")
		}
		return err
	}
	if existing.Status != models.AccessRequestPending {
		return apperrors.AlreadyProcessedError("access request")
	}
	return apperrors.NotFoundError("access request")
}
