package postgres

import (
	"context"
	"errors"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/pkg/db"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const accessRequestsTable = "trainer_access_requests"

// CreateAccessRequest relies on the partial unique index for the one-pending rule
func (c *Client) CreateAccessRequest(ctx context.Context, userID, trainerID, message string) (*models.AccessRequest, error) {
	ctx, op := c.begin(ctx, "createAccessRequest", accessRequestsTable)

	query := `
		INSERT INTO trainer_access_requests (user_id, trainer_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + models.AccessRequestColumns

	request, err := models.ScanAccessRequest(c.pool.QueryRow(ctx, query,
		userID, trainerID, nilIfEmpty(message), models.AccessRequestPending,
	))
	if db.IsUniqueViolation(err) {
		_ = op.done(nil, zap.Bool("duplicate", true))
		return nil, apperrors.ConflictError("a pending request for this trainer already exists")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.String("request_id", request.ID))
	return request, nil
}

// ResolveAccessRequest moves a pending request to its terminal status exactly once
func (c *Client) ResolveAccessRequest(ctx context.Context, id string, status models.AccessRequestStatus) (*models.AccessRequest, error) {
	ctx, op := c.begin(ctx, "resolveAccessRequest", accessRequestsTable)

	query := `
		UPDATE trainer_access_requests
		SET status = $2, processed_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + models.AccessRequestColumns

	request, err := models.ScanAccessRequest(c.pool.QueryRow(ctx, query, id, status, models.AccessRequestPending))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil, zap.Bool("matched", false))
		return nil, apperrors.NotFoundError("pending access request")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.String("request_id", id), zap.String("status", string(status)))
	return request, nil
}

func (c *Client) GetAccessRequest(ctx context.Context, id string) (*models.AccessRequest, error) {
	ctx, op := c.begin(ctx, "getAccessRequest", accessRequestsTable)

	request, err := models.ScanAccessRequest(c.pool.QueryRow(ctx,
		`SELECT `+models.AccessRequestColumns+` FROM trainer_access_requests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil)
		return nil, apperrors.NotFoundError("access request")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil)
	return request, nil
}

func (c *Client) ListPendingAccessRequests(ctx context.Context) ([]*models.AccessRequest, error) {
	ctx, op := c.begin(ctx, "listPendingAccessRequests", accessRequestsTable)

	rows, err := c.pool.Query(ctx,
		`SELECT `+models.AccessRequestColumns+`
		 FROM trainer_access_requests
		 WHERE status = $1
		 ORDER BY created_at DESC`,
		models.AccessRequestPending,
	)
	if err != nil {
		return nil, op.done(err)
	}

	requests, err := models.ScanAccessRequests(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("rows", len(requests)))
	return requests, nil
}
