package postgres

import (
	"context"
	"errors"

	"github.com/gymratia/gymratia-api/internal/models"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const userProfilesTable = "user_profiles"

// SearchProfiles returns profiles newest first, filtered by a substring of email or either name
func (c *Client) SearchProfiles(ctx context.Context, query string) ([]*models.UserProfile, error) {
	ctx, op := c.begin(ctx, "searchProfiles", userProfilesTable)

	sql := `SELECT ` + models.UserProfileColumns + ` FROM user_profiles`
	args := []any{}
	if query != "" {
		sql += ` WHERE email ILIKE $1 OR full_name ILIKE $1 OR preferred_name ILIKE $1`
		args = append(args, likePattern(query))
	}
	sql += ` ORDER BY created_at DESC, id ASC`

	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, op.done(err)
	}

	profiles, err := models.ScanUserProfiles(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("rows", len(profiles)))
	return profiles, nil
}

func (c *Client) GetProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, op := c.begin(ctx, "getProfileByUserID", userProfilesTable)

	profile, err := models.ScanUserProfile(c.pool.QueryRow(ctx,
		`SELECT `+models.UserProfileColumns+` FROM user_profiles WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil)
		return nil, apperrors.NotFoundError("profile")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil)
	return profile, nil
}

func (c *Client) GetProfilesByUserIDs(ctx context.Context, userIDs []string) ([]*models.UserProfile, error) {
	ctx, op := c.begin(ctx, "getProfilesByUserIDs", userProfilesTable)

	rows, err := c.pool.Query(ctx,
		`SELECT `+models.UserProfileColumns+` FROM user_profiles WHERE user_id = ANY($1::uuid[])`,
		userIDs,
	)
	if err != nil {
		return nil, op.done(err)
	}

	profiles, err := models.ScanUserProfiles(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("keys", len(userIDs)), zap.Int("rows", len(profiles)))
	return profiles, nil
}
