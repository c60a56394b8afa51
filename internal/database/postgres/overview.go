package postgres

import (
	"context"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
)

// CountOverview runs one COUNT per table. The counts are not a consistent snapshot.
func (c *Client) CountOverview(ctx context.Context, chatsSince time.Time) (*models.PortalOverview, error) {
	overview := &models.PortalOverview{}

	counts := []struct {
		operation string
		table     string
		query     string
		args      []any
		dest      *int64
	}{
		{"countUsers", userProfilesTable, `SELECT COUNT(*) FROM user_profiles`, nil, &overview.TotalUsers},
		{"countTrainers", trainersTable, `SELECT COUNT(*) FROM trainers`, nil, &overview.TotalTrainers},
		{"countTrainersByPrivacy", trainersTable, `SELECT COUNT(*) FROM trainers WHERE privacy_mode = $1`,
			[]any{models.PrivacyPublic}, &overview.TrainersPublic},
		{"countTrainersByPrivacy", trainersTable, `SELECT COUNT(*) FROM trainers WHERE privacy_mode = $1`,
			[]any{models.PrivacyPrivate}, &overview.TrainersPrivate},
		{"countChats", trainerChatsTable, `SELECT COUNT(*) FROM trainer_chats`, nil, &overview.TotalChats},
		{"countChatsSince", trainerChatsTable, `SELECT COUNT(*) FROM trainer_chats WHERE created_at >= $1`,
			[]any{chatsSince}, &overview.ChatsLast7d},
		{"countPendingRequests", accessRequestsTable, `SELECT COUNT(*) FROM trainer_access_requests WHERE status = $1`,
			[]any{models.AccessRequestPending}, &overview.PendingRequests},
	}

	for _, count := range counts {
		opCtx, op := c.begin(ctx, count.operation, count.table)
		if err := c.pool.QueryRow(opCtx, count.query, count.args...).Scan(count.dest); err != nil {
			return nil, op.done(err)
		}
		_ = op.done(nil)
	}

	overview.GeneratedAt = time.Now().UTC()
	return overview, nil
}
