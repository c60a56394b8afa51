package postgres

import (
	"context"

	"github.com/gymratia/gymratia-api/internal/models"
	"go.uber.org/zap"
)

const trainerChatsTable = "trainer_chats"

// GetChatLinksByUserIDs returns links oldest first so slugs keep first-seen order per user
func (c *Client) GetChatLinksByUserIDs(ctx context.Context, userIDs []string) ([]*models.TrainerChatLink, error) {
	ctx, op := c.begin(ctx, "getChatLinksByUserIDs", trainerChatsTable)

	rows, err := c.pool.Query(ctx,
		`SELECT `+models.TrainerChatLinkColumns+`
		 FROM trainer_chats
		 WHERE user_id = ANY($1::uuid[])
		 ORDER BY created_at ASC, id ASC`,
		userIDs,
	)
	if err != nil {
		return nil, op.done(err)
	}

	links, err := models.ScanTrainerChatLinks(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("keys", len(userIDs)), zap.Int("rows", len(links)))
	return links, nil
}

func (c *Client) GetChatLinksByTrainerSlug(ctx context.Context, slug string) ([]*models.TrainerChatLink, error) {
	ctx, op := c.begin(ctx, "getChatLinksByTrainerSlug", trainerChatsTable)

	rows, err := c.pool.Query(ctx,
		`SELECT `+models.TrainerChatLinkColumns+`
		 FROM trainer_chats
		 WHERE trainer_slug = $1
		 ORDER BY created_at ASC, id ASC`,
		slug,
	)
	if err != nil {
		return nil, op.done(err)
	}

	links, err := models.ScanTrainerChatLinks(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("rows", len(links)))
	return links, nil
}

func (c *Client) CountStudentsByTrainerSlug(ctx context.Context, slug string) (int, error) {
	ctx, op := c.begin(ctx, "countStudentsByTrainerSlug", trainerChatsTable)

	var count int
	err := c.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM trainer_chats WHERE trainer_slug = $1`, slug,
	).Scan(&count)
	if err != nil {
		return 0, op.done(err)
	}

	_ = op.done(nil)
	return count, nil
}
