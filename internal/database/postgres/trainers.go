package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const trainersTable = "trainers"

// TransitionByReviewToken is the single-use token consumption: the token match, the
// PENDING_REVIEW guard, the new status and clearing the token happen in one statement.
func (c *Client) TransitionByReviewToken(ctx context.Context, token string, target models.VisibilityStatus) (*models.ReviewedTrainer, error) {
	ctx, op := c.begin(ctx, "transitionByReviewToken", trainersTable)

	query := `
		UPDATE trainers
		SET visibility_status = $2,
		    reviewed_at = NOW(),
		    admin_review_token = NULL,
		    updated_at = NOW()
		WHERE admin_review_token = $1
		  AND visibility_status = $3
		RETURNING id, user_id, slug, trainer_name, visibility_status, reviewed_at
	`

	var t models.ReviewedTrainer
	err := c.pool.QueryRow(ctx, query, token, target, models.VisibilityPendingReview).Scan(
		&t.ID, &t.UserID, &t.Slug, &t.TrainerName, &t.VisibilityStatus, &t.ReviewedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil, zap.Bool("matched", false))
		return nil, apperrors.NotFoundError("pending trainer for token")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.String("trainer_id", t.ID), zap.String("status", string(t.VisibilityStatus)))
	return &t, nil
}

// StatusByReviewToken classifies a failed transition
func (c *Client) StatusByReviewToken(ctx context.Context, token string) (models.VisibilityStatus, error) {
	ctx, op := c.begin(ctx, "statusByReviewToken", trainersTable)

	var status models.VisibilityStatus
	err := c.pool.QueryRow(ctx,
		`SELECT visibility_status FROM trainers WHERE admin_review_token = $1 LIMIT 1`,
		token,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil)
		return "", apperrors.NotFoundError("trainer for token")
	}
	if err != nil {
		return "", op.done(err)
	}

	_ = op.done(nil)
	return status, nil
}

// MarkPendingReview stores a fresh token and enters PENDING_REVIEW
func (c *Client) MarkPendingReview(ctx context.Context, trainerID, token string) (time.Time, error) {
	ctx, op := c.begin(ctx, "markPendingReview", trainersTable)

	query := `
		UPDATE trainers
		SET visibility_status = $3,
		    admin_review_token = $2,
		    requested_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
		  AND visibility_status NOT IN ($3, $4)
		RETURNING requested_at
	`

	var requestedAt time.Time
	err := c.pool.QueryRow(ctx, query,
		trainerID, token, models.VisibilityPendingReview, models.VisibilityPublic,
	).Scan(&requestedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil, zap.Bool("matched", false))
		return time.Time{}, apperrors.AlreadyProcessedError("trainer review already pending or public")
	}
	if err != nil {
		return time.Time{}, op.done(err)
	}

	_ = op.done(nil, zap.String("trainer_id", trainerID))
	return requestedAt, nil
}

func (c *Client) GetTrainerByUserID(ctx context.Context, userID string) (*models.Trainer, error) {
	return c.getTrainer(ctx, "getTrainerByUserID", "user_id", userID)
}

func (c *Client) GetTrainerBySlug(ctx context.Context, slug string) (*models.Trainer, error) {
	return c.getTrainer(ctx, "getTrainerBySlug", "slug", slug)
}

// getTrainer selects the oldest trainer matching column; column is never user input
func (c *Client) getTrainer(ctx context.Context, operation, column, value string) (*models.Trainer, error) {
	ctx, op := c.begin(ctx, operation, trainersTable)

	query := fmt.Sprintf(`SELECT %s FROM trainers WHERE %s = $1 ORDER BY created_at ASC LIMIT 1`,
		models.TrainerColumns, column)

	trainer, err := models.ScanTrainer(c.pool.QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil)
		return nil, apperrors.NotFoundError("trainer")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil)
	return trainer, nil
}

func (c *Client) GetTrainersByIDs(ctx context.Context, ids []string) ([]*models.Trainer, error) {
	ctx, op := c.begin(ctx, "getTrainersByIDs", trainersTable)

	rows, err := c.pool.Query(ctx,
		`SELECT `+models.TrainerColumns+` FROM trainers WHERE id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, op.done(err)
	}

	trainers, err := models.ScanTrainers(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("keys", len(ids)), zap.Int("rows", len(trainers)))
	return trainers, nil
}

func (c *Client) ListTrainers(ctx context.Context, params models.TrainerListParams) ([]*models.Trainer, error) {
	ctx, op := c.begin(ctx, "listTrainers", trainersTable)

	query, args := buildTrainerListQuery(params)
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, op.done(err)
	}

	trainers, err := models.ScanTrainers(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("rows", len(trainers)))
	return trainers, nil
}

// trainerSortColumn maps the allow-listed sort fields to columns
func trainerSortColumn(field models.TrainerSortField) string {
	switch field {
	case models.SortByAverageRating:
		return "average_rating"
	case models.SortByActiveStudents:
		return "active_students"
	case models.SortByTrainerName:
		return "trainer_name"
	default:
		return "created_at"
	}
}

func buildTrainerListQuery(params models.TrainerListParams) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	where := func(format string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if params.Query != "" {
		where(`(slug ILIKE $%[1]d OR trainer_name ILIKE $%[1]d OR email ILIKE $%[1]d)`, likePattern(params.Query))
	}
	// comparisons against NULL are never true, so unrated trainers drop out here
	if params.MinRating != nil {
		where(`average_rating >= $%d`, *params.MinRating)
	}
	if params.MinStudents != nil {
		where(`active_students >= $%d`, *params.MinStudents)
	}
	if params.Privacy != nil {
		where(`privacy_mode = $%d`, string(*params.Privacy))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(models.TrainerColumns)
	b.WriteString(" FROM trainers")
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	direction := "DESC"
	if params.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s NULLS LAST, id ASC", trainerSortColumn(params.SortBy), direction)

	return b.String(), args
}
