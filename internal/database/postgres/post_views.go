package postgres

import (
	"context"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/pkg/db"
	"go.uber.org/zap"
)

const postViewsTable = "post_views"

// InsertPostView writes the view without checking for an existing one first.
// The dedup index rejects a second view in the same hour; that case reports counted=false.
func (c *Client) InsertPostView(ctx context.Context, view models.PostView) (bool, error) {
	ctx, op := c.begin(ctx, "insertPostView", postViewsTable)

	_, err := c.pool.Exec(ctx,
		`INSERT INTO post_views (post_id, user_id, viewed_at, viewed_hour) VALUES ($1, $2, $3, $4)`,
		view.PostID, view.UserID, view.ViewedAt, view.ViewedHour,
	)
	if db.IsUniqueViolation(err) {
		_ = op.done(nil, zap.Bool("duplicate", true))
		return false, nil
	}
	if err != nil {
		return false, op.done(err)
	}

	_ = op.done(nil)
	return true, nil
}

func (c *Client) CountPostViews(ctx context.Context, postID string) (int64, error) {
	ctx, op := c.begin(ctx, "countPostViews", postViewsTable)

	var count int64
	if err := c.pool.QueryRow(ctx, `SELECT COUNT(*) FROM post_views WHERE post_id = $1`, postID).Scan(&count); err != nil {
		return 0, op.done(err)
	}

	_ = op.done(nil)
	return count, nil
}
