package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/services"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const postID = "3b0a6f4e-2a7d-4c55-8d42-5c1e9a0e7f10"

// dedupViewStore keeps the (post, viewer, hour) keys it has seen
type dedupViewStore struct {
	MockPostViewStore
	seen map[string]struct{}
}

func (s *dedupViewStore) InsertPostView(_ context.Context, view models.PostView) (bool, error) {
	viewer := ""
	if view.UserID != nil {
		viewer = *view.UserID
	}
	key := view.PostID + "|" + viewer + "|" + view.ViewedHour.String()
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}

func (s *dedupViewStore) CountPostViews(_ context.Context, _ string) (int64, error) {
	return int64(len(s.seen)), nil
}

func TestEngagementService_RecordView_DedupWithinHour(t *testing.T) {
	store := &dedupViewStore{seen: map[string]struct{}{}}
	svc := services.NewEngagementService(store)
	ctx := context.Background()
	viewer := strPtr("u1")

	first, err := svc.RecordView(ctx, postID, viewer)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.True(t, first.Counted)
	assert.Equal(t, "View recorded", first.Message)

	second, err := svc.RecordView(ctx, postID, viewer)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.False(t, second.Counted)
	assert.Equal(t, "View already registered for this hour", second.Message)

	count, err := svc.CountViews(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Views)
}

func TestEngagementService_RecordView_AnonymousShareKey(t *testing.T) {
	store := &dedupViewStore{seen: map[string]struct{}{}}
	svc := services.NewEngagementService(store)
	ctx := context.Background()

	first, err := svc.RecordView(ctx, postID, nil)
	require.NoError(t, err)
	assert.True(t, first.Counted)

	second, err := svc.RecordView(ctx, postID, nil)
	require.NoError(t, err)
	assert.False(t, second.Counted)

	other, err := svc.RecordView(ctx, postID, strPtr("u1"))
	require.NoError(t, err)
	assert.True(t, other.Counted)
}

func TestEngagementService_RecordView_BucketsToHour(t *testing.T) {
	store := new(MockPostViewStore)
	store.On("InsertPostView", mock.Anything, mock.MatchedBy(func(v models.PostView) bool {
		return v.PostID == postID &&
			v.UserID == nil &&
			v.ViewedHour.Equal(v.ViewedAt.Truncate(time.Hour)) &&
			v.ViewedAt.Location() == time.UTC
	})).Return(true, nil).Once()

	_, err := services.NewEngagementService(store).RecordView(context.Background(), postID, nil)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestEngagementService_RecordView_InvalidPostID(t *testing.T) {
	store := new(MockPostViewStore)
	svc := services.NewEngagementService(store)

	for _, id := range []string{"", "   ", "not-a-uuid"} {
		_, err := svc.RecordView(context.Background(), id, nil)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput), id)
	}
	store.AssertNotCalled(t, "InsertPostView", mock.Anything, mock.Anything)
}

func TestEngagementService_RecordView_StoreFailure(t *testing.T) {
	store := new(MockPostViewStore)
	store.On("InsertPostView", mock.Anything, mock.Anything).
		Return(false, apperrors.UpstreamError("post_views.insert", errors.New("timeout"))).Once()

	_, err := services.NewEngagementService(store).RecordView(context.Background(), postID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
}
