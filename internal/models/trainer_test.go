package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRow implements pgx.Row by assigning values positionally
type mockRow struct {
	values []interface{}
	err    error
}

func (m *mockRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) != len(m.values) {
		return errors.New("column count mismatch")
	}

	for i, v := range m.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case **string:
			if v != nil {
				s := v.(string)
				*d = &s
			}
		case *models.VisibilityStatus:
			*d = models.VisibilityStatus(v.(string))
		case *models.PrivacyMode:
			*d = models.PrivacyMode(v.(string))
		case **float64:
			if v != nil {
				f := v.(float64)
				*d = &f
			}
		case *int:
			*d = v.(int)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			if v != nil {
				ts := v.(time.Time)
				*d = &ts
			}
		default:
			return errors.New("unsupported scan destination")
		}
	}
	return nil
}

func TestScanTrainer(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	row := &mockRow{values: []interface{}{
		"t-1", "coach-ana", "u-1", "Coach Ana", "Ana Perez", "ana@example.com", "PENDING_REVIEW",
		"tok-1", created, nil, "public", 4.8,
		12, 5, 9, "NSCA", "@ana",
		"https://instagram.com/ana", "Strength coach", true, created,
	}}

	trainer, err := models.ScanTrainer(row)
	require.NoError(t, err)

	assert.Equal(t, "coach-ana", trainer.Slug)
	assert.Equal(t, models.VisibilityPendingReview, trainer.VisibilityStatus)
	require.NotNil(t, trainer.AdminReviewToken)
	assert.Equal(t, "tok-1", *trainer.AdminReviewToken)
	assert.Nil(t, trainer.ReviewedAt)
	require.NotNil(t, trainer.AverageRating)
	assert.InDelta(t, 4.8, *trainer.AverageRating, 0.0001)
	assert.Equal(t, 5, trainer.ActiveStudents)
	assert.Empty(t, trainer.MissingPublicFields())
}

func TestScanTrainer_Error(t *testing.T) {
	_, err := models.ScanTrainer(&mockRow{err: errors.New("no rows")})
	require.Error(t, err)
}

func TestTrainer_MissingPublicFields(t *testing.T) {
	blank := "   "
	handle := "@coach"
	trainer := &models.Trainer{SocialHandle: &handle, Description: &blank}

	assert.Equal(t, []string{"certificates", "socialProof", "description"}, trainer.MissingPublicFields())
}

func TestReviewAction(t *testing.T) {
	assert.True(t, models.ReviewActionApprove.IsValid())
	assert.True(t, models.ReviewActionReject.IsValid())
	assert.False(t, models.ReviewAction("publish").IsValid())

	assert.Equal(t, models.VisibilityPublic, models.ReviewActionApprove.TargetStatus())
	assert.Equal(t, models.VisibilityRejected, models.ReviewActionReject.TargetStatus())

	assert.Equal(t, models.AccessRequestApproved, models.AccessRequestStatusFor(models.ReviewActionApprove))
	assert.Equal(t, models.AccessRequestRejected, models.AccessRequestStatusFor(models.ReviewActionReject))
}

func TestVisibilityStatus_IsValid(t *testing.T) {
	assert.True(t, models.VisibilityRequestAccess.IsValid())
	assert.False(t, models.VisibilityStatus("ARCHIVED").IsValid())
}

func TestNewPostView_TruncatesToUTCHour(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2025, 6, 1, 9, 47, 12, 0, loc)

	view := models.NewPostView("p-1", nil, now)

	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), view.ViewedHour)
	assert.Equal(t, time.UTC, view.ViewedAt.Location())
	assert.Nil(t, view.UserID)
}

func TestUserProfile_DisplayName(t *testing.T) {
	full := "Ana Perez"
	preferred := "Ana"
	empty := " "

	assert.Equal(t, "Ana", (&models.UserProfile{FullName: &full, PreferredName: &preferred}).DisplayName())
	assert.Equal(t, "Ana Perez", (&models.UserProfile{FullName: &full, PreferredName: &empty}).DisplayName())
	assert.Equal(t, "", (&models.UserProfile{}).DisplayName())

	var missing *models.UserProfile
	assert.Equal(t, "", missing.DisplayName())
}
