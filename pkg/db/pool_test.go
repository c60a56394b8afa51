package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsSSLMode(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"postgres://localhost/gymratia", false},
		{"postgres://localhost/gymratia?sslmode=disable", false},
		{"postgres://db/gymratia?sslmode=require", true},
		{"postgres://db/gymratia?sslmode=verify-full", true},
		{"postgres://db/gymratia?sslmode=verify-ca", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, containsSSLMode(tt.url))
		})
	}
}

func TestConfigureTLS_PlainConnection(t *testing.T) {
	cfg, err := configureTLS("postgres://localhost/gymratia", "/nonexistent.crt")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestConfigureTLS_MissingCA(t *testing.T) {
	_, err := configureTLS("postgres://db/gymratia?sslmode=verify-full", "/nonexistent.crt")
	require.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(fmt.Errorf("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
