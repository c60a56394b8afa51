package projector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gymratia/gymratia-api/internal/projector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	ID        string
	TrainerID string
}

type trainer struct {
	ID   string
	Slug string
}

type chat struct {
	UserID string
	Slug   string
}

// recordingFetcher counts calls and remembers the keys it was asked for
type recordingFetcher[R any] struct {
	calls int
	keys  [][]string
	rows  []R
	err   error
}

func (f *recordingFetcher[R]) fetch(_ context.Context, keys []string) ([]R, error) {
	f.calls++
	f.keys = append(f.keys, keys)
	return f.rows, f.err
}

func TestKeys_DistinctNonEmptyInOrder(t *testing.T) {
	items := []request{
		{ID: "r1", TrainerID: "t2"},
		{ID: "r2", TrainerID: ""},
		{ID: "r3", TrainerID: "t1"},
		{ID: "r4", TrainerID: "t2"},
	}

	keys := projector.Keys(items, func(r request) string { return r.TrainerID })

	assert.Equal(t, []string{"t2", "t1"}, keys)
}

func TestOne_SingleBatchedLookup(t *testing.T) {
	items := []request{
		{ID: "r1", TrainerID: "t1"},
		{ID: "r2", TrainerID: "t2"},
		{ID: "r3", TrainerID: "t1"},
		{ID: "r4", TrainerID: "missing"},
	}
	fetcher := &recordingFetcher[trainer]{rows: []trainer{
		{ID: "t1", Slug: "coach-one"},
		{ID: "t2", Slug: "coach-two"},
	}}

	byID, err := projector.One(context.Background(), "test_trainers", items,
		func(r request) string { return r.TrainerID },
		fetcher.fetch,
		func(t trainer) string { return t.ID },
	)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, []string{"t1", "t2", "missing"}, fetcher.keys[0])
	assert.Equal(t, "coach-one", byID["t1"].Slug)
	assert.Equal(t, "coach-two", byID["t2"].Slug)
	_, ok := byID["missing"]
	assert.False(t, ok)
}

func TestOne_EmptyKeySetSkipsLookup(t *testing.T) {
	fetcher := &recordingFetcher[trainer]{}

	byID, err := projector.One(context.Background(), "test_trainers",
		[]request{{ID: "r1"}},
		func(r request) string { return r.TrainerID },
		fetcher.fetch,
		func(t trainer) string { return t.ID },
	)
	require.NoError(t, err)

	assert.Equal(t, 0, fetcher.calls)
	assert.Empty(t, byID)
}

func TestMany_GroupsInFetchOrder(t *testing.T) {
	users := []string{"u1", "u2", "u3"}
	fetcher := &recordingFetcher[chat]{rows: []chat{
		{UserID: "u1", Slug: "coach-a"},
		{UserID: "u2", Slug: "coach-b"},
		{UserID: "u1", Slug: "coach-c"},
	}}

	byUser, err := projector.Many(context.Background(), "test_chats", users,
		func(u string) string { return u },
		fetcher.fetch,
		func(c chat) string { return c.UserID },
	)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Len(t, byUser["u1"], 2)
	assert.Equal(t, "coach-a", byUser["u1"][0].Slug)
	assert.Equal(t, "coach-c", byUser["u1"][1].Slug)
	assert.Len(t, byUser["u2"], 1)
	assert.Empty(t, byUser["u3"])
}

func TestMany_PropagatesFetchError(t *testing.T) {
	fetcher := &recordingFetcher[chat]{err: errors.New("connection refused")}

	_, err := projector.Many(context.Background(), "test_chats", []string{"u1"},
		func(u string) string { return u },
		fetcher.fetch,
		func(c chat) string { return c.UserID },
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test_chats")
	assert.Contains(t, err.Error(), "connection refused")
}
