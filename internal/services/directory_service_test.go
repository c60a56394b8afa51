package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/services"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type directoryFixture struct {
	trainers  *MockTrainerStore
	profiles  *MockProfileStore
	chatLinks *MockChatLinkStore
	svc       *services.DirectoryService
}

func newDirectoryFixture() *directoryFixture {
	f := &directoryFixture{
		trainers:  new(MockTrainerStore),
		profiles:  new(MockProfileStore),
		chatLinks: new(MockChatLinkStore),
	}
	f.svc = services.NewDirectoryService(f.trainers, f.profiles, f.chatLinks)
	return f
}

func link(userID, slug string) *models.TrainerChatLink {
	return &models.TrainerChatLink{UserID: userID, TrainerSlug: slug, CreatedAt: time.Now()}
}

func TestDirectoryService_ListTrainers_AttachesOwners(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()
	params := models.TrainerListParams{SortBy: models.SortByCreatedAt, SortOrder: models.SortDesc}

	f.trainers.On("ListTrainers", ctx, params).Return([]*models.Trainer{
		{ID: "t1", UserID: "u1"},
		{ID: "t2", UserID: "u2"},
		{ID: "t3", UserID: "u1"},
	}, nil).Once()
	f.profiles.On("GetProfilesByUserIDs", ctx, []string{"u1", "u2"}).Return([]*models.UserProfile{
		{UserID: "u1", FullName: strPtr("Ana"), Email: strPtr("ana@example.com")},
	}, nil).Once()

	resp, err := f.svc.ListTrainers(ctx, params)
	require.NoError(t, err)
	require.Len(t, resp.Trainers, 3)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "Ana", *resp.Trainers[0].Owner.FullName)
	assert.Nil(t, resp.Trainers[1].Owner)
	assert.Equal(t, "ana@example.com", *resp.Trainers[2].Owner.Email)
	f.profiles.AssertNumberOfCalls(t, "GetProfilesByUserIDs", 1)
}

func TestDirectoryService_ListTrainers_EmptyIssuesNoProfileLookup(t *testing.T) {
	f := newDirectoryFixture()
	f.trainers.On("ListTrainers", mock.Anything, mock.Anything).Return([]*models.Trainer{}, nil).Once()

	resp, err := f.svc.ListTrainers(context.Background(), models.TrainerListParams{})
	require.NoError(t, err)
	assert.Empty(t, resp.Trainers)
	f.profiles.AssertNotCalled(t, "GetProfilesByUserIDs", mock.Anything, mock.Anything)
}

func usersFixture(f *directoryFixture) {
	f.profiles.On("SearchProfiles", mock.Anything, "").Return([]*models.UserProfile{
		{UserID: "u1"},
		{UserID: "u2"},
		{UserID: "u3"},
	}, nil)
	f.chatLinks.On("GetChatLinksByUserIDs", mock.Anything, []string{"u1", "u2", "u3"}).Return([]*models.TrainerChatLink{
		link("u1", "coach"),
		link("u3", "yoga"),
		link("u1", "runner"),
		link("u1", "coach"),
	}, nil)
}

func TestDirectoryService_ListUsers_TrainerSlugs(t *testing.T) {
	f := newDirectoryFixture()
	usersFixture(f)

	resp, err := f.svc.ListUsers(context.Background(), models.UserListParams{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 3)

	assert.Equal(t, []string{"coach", "runner"}, resp.Users[0].TrainerSlugs)
	assert.True(t, resp.Users[0].HasTrainer)
	assert.Empty(t, resp.Users[1].TrainerSlugs)
	assert.False(t, resp.Users[1].HasTrainer)
	assert.Equal(t, []string{"yoga"}, resp.Users[2].TrainerSlugs)
	f.chatLinks.AssertNumberOfCalls(t, "GetChatLinksByUserIDs", 1)
}

func TestDirectoryService_ListUsers_WithTrainerIsSubset(t *testing.T) {
	f := newDirectoryFixture()
	usersFixture(f)
	ctx := context.Background()

	all, err := f.svc.ListUsers(ctx, models.UserListParams{})
	require.NoError(t, err)

	yes := true
	withTrainer, err := f.svc.ListUsers(ctx, models.UserListParams{WithTrainer: &yes})
	require.NoError(t, err)

	expected := []string{}
	for _, u := range all.Users {
		if len(u.TrainerSlugs) > 0 {
			expected = append(expected, u.UserID)
		}
	}
	got := []string{}
	for _, u := range withTrainer.Users {
		got = append(got, u.UserID)
	}
	assert.Equal(t, expected, got)

	no := false
	without, err := f.svc.ListUsers(ctx, models.UserListParams{WithTrainer: &no})
	require.NoError(t, err)
	require.Len(t, without.Users, 1)
	assert.Equal(t, "u2", without.Users[0].UserID)
}

func TestDirectoryService_ListStudents_FirstChatOrder(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	f.trainers.On("GetTrainerByUserID", ctx, "owner").Return(&models.Trainer{ID: "t1", Slug: "coach"}, nil).Once()
	f.chatLinks.On("GetChatLinksByTrainerSlug", ctx, "coach").Return([]*models.TrainerChatLink{
		link("u2", "coach"),
		link("u1", "coach"),
		link("u2", "coach"),
	}, nil).Once()
	f.profiles.On("GetProfilesByUserIDs", ctx, []string{"u2", "u1"}).Return([]*models.UserProfile{
		{UserID: "u1", FullName: strPtr("Ana"), Email: strPtr("ana@example.com")},
	}, nil).Once()

	resp, err := f.svc.ListStudents(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, resp.Students, 2)
	assert.Equal(t, "u2", resp.Students[0].UserID)
	assert.Nil(t, resp.Students[0].FullName)
	assert.Equal(t, "u1", resp.Students[1].UserID)
	assert.Equal(t, "Ana", *resp.Students[1].FullName)
}

func TestDirectoryService_ListStudents_NoTrainer(t *testing.T) {
	f := newDirectoryFixture()
	f.trainers.On("GetTrainerByUserID", mock.Anything, "u1").Return(nil, apperrors.NotFoundError("trainer")).Once()

	resp, err := f.svc.ListStudents(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, resp.Students)
	f.chatLinks.AssertNotCalled(t, "GetChatLinksByTrainerSlug", mock.Anything, mock.Anything)
}

func TestDirectoryService_TrainerStats(t *testing.T) {
	f := newDirectoryFixture()
	f.trainers.On("GetTrainerByUserID", mock.Anything, "owner").Return(&models.Trainer{Slug: "coach"}, nil).Once()
	f.chatLinks.On("CountStudentsByTrainerSlug", mock.Anything, "coach").Return(4, nil).Once()

	stats, err := f.svc.TrainerStats(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.ActiveStudents)

	f.trainers.On("GetTrainerByUserID", mock.Anything, "nobody").Return(nil, apperrors.NotFoundError("trainer")).Once()
	stats, err = f.svc.TrainerStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ActiveStudents)
}
