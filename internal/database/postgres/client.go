package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/gymratia/gymratia-api/internal/repository"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"github.com/gymratia/gymratia-api/pkg/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client wraps a pgx connection pool with observability.
// Every query it issues touches a single table.
type Client struct {
	pool *pgxpool.Pool
}

var (
	_ repository.TrainerStore       = (*Client)(nil)
	_ repository.AccessRequestStore = (*Client)(nil)
	_ repository.MessageStore       = (*Client)(nil)
	_ repository.PostViewStore      = (*Client)(nil)
	_ repository.ProfileStore       = (*Client)(nil)
	_ repository.ChatLinkStore      = (*Client)(nil)
	_ repository.OverviewStore      = (*Client)(nil)
)

// NewClient wraps an already connected pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Stats returns connection pool statistics
func (c *Client) Stats() *pgxpool.Stat {
	return c.pool.Stat()
}

// operation tracks timing, tracing and metrics for one store call
type operation struct {
	name  string
	start time.Time
	span  trace.Span
}

func (c *Client) begin(ctx context.Context, name, table string) (context.Context, *operation) {
	ctx, span := tracing.StartSpan(ctx, "postgres."+name,
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", table),
	)
	return ctx, &operation{name: name, start: time.Now(), span: span}
}

// done records the outcome. Pass a nil error for expected misses (no rows, duplicates).
// Store failures come back wrapped with ErrUpstream.
func (op *operation) done(err error, fields ...zap.Field) error {
	defer op.span.End()

	duration := metrics.MeasureDuration(op.start)
	if err != nil {
		recordMetrics(op.name, "error", duration)
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		logger.LogAPICall("postgres", op.name, "error", duration, append(fields, zap.Error(err))...)
		return apperrors.UpstreamError(op.name, err)
	}

	recordMetrics(op.name, "success", duration)
	logger.LogAPICall("postgres", op.name, "success", duration, fields...)
	return nil
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped
func likePattern(q string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + escaped + "%"
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
