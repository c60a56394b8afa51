package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

func TestExecute_PassesResultThrough(t *testing.T) {
	cb := New(DefaultConfig("ok"))

	got, err := Execute(cb, func() (int, error) { return 202, nil })
	require.NoError(t, err)
	assert.Equal(t, 202, got)
}

func TestExecute_TripsAfterFailures(t *testing.T) {
	cfg := DefaultConfig("failing")
	cfg.Timeout = time.Hour
	cb := New(cfg)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_, err := Execute(cb, func() (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.True(t, IsOpen(cb))

	called := false
	_, err := Execute(cb, func() (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestExecute_StaysClosedBelowMinimum(t *testing.T) {
	cb := New(DefaultConfig("sparse"))

	_, _ = Execute(cb, func() (int, error) { return 0, errors.New("boom") })
	_, _ = Execute(cb, func() (int, error) { return 0, errors.New("boom") })
	assert.False(t, IsOpen(cb))
}
