package postgres

import (
	"context"
	"errors"

	"github.com/gymratia/gymratia-api/internal/models"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const userMessagesTable = "user_messages"

func (c *Client) CreateUserMessage(ctx context.Context, userID string, msgType models.MessageType, title, body string) (*models.UserMessage, error) {
	ctx, op := c.begin(ctx, "createUserMessage", userMessagesTable)

	query := `
		INSERT INTO user_messages (user_id, type, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + models.UserMessageColumns

	message, err := models.ScanUserMessage(c.pool.QueryRow(ctx, query, userID, msgType, title, body))
	if err != nil {
		return nil, op.done(err, zap.String("type", string(msgType)))
	}

	_ = op.done(nil, zap.String("type", string(msgType)))
	return message, nil
}

func (c *Client) ListUserMessages(ctx context.Context, userID string) ([]*models.UserMessage, error) {
	ctx, op := c.begin(ctx, "listUserMessages", userMessagesTable)

	rows, err := c.pool.Query(ctx,
		`SELECT `+models.UserMessageColumns+`
		 FROM user_messages
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, op.done(err)
	}

	messages, err := models.ScanUserMessages(rows)
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil, zap.Int("rows", len(messages)))
	return messages, nil
}

// MarkUserMessageRead only touches the caller's own message; read_at keeps its first value
func (c *Client) MarkUserMessageRead(ctx context.Context, userID, messageID string) (*models.UserMessage, error) {
	ctx, op := c.begin(ctx, "markUserMessageRead", userMessagesTable)

	query := `
		UPDATE user_messages
		SET read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
		RETURNING ` + models.UserMessageColumns

	message, err := models.ScanUserMessage(c.pool.QueryRow(ctx, query, messageID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = op.done(nil)
		return nil, apperrors.NotFoundError("message")
	}
	if err != nil {
		return nil, op.done(err)
	}

	_ = op.done(nil)
	return message, nil
}
