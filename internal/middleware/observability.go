package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/gymratia/gymratia-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	RequestIDHeader     = "X-Request-ID"
	RequestIDContextKey = "request_id"

	maxRequestIDLength = 128
)

// redactedQueryParams are never logged
var redactedQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true,
	"access_token": true, "refresh_token": true,
}

// ObservabilityMiddleware assigns a request id, records HTTP metrics by route template
// and logs one line per request
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		requestID := incomingRequestID(c.GetHeader(RequestIDHeader))
		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)

		active := metrics.ActiveRequests.WithLabelValues(method)
		active.Inc()
		defer active.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		duration := metrics.MeasureDuration(start)

		statusLabel := strconv.Itoa(status)
		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusLabel).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusLabel).Inc()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if identity, err := GetIdentity(c); err == nil {
			fields = append(fields, zap.String("user_id", identity.UserID))
		}
		if status >= 400 {
			fields = append(fields, failureFields(c)...)
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

// incomingRequestID keeps a caller supplied id when it looks sane
func incomingRequestID(header string) string {
	header = strings.TrimSpace(header)
	if header == "" || len(header) > maxRequestIDLength || strings.ContainsAny(header, "\r\n") {
		return uuid.NewString()
	}
	return header
}

// failureFields adds route params, safe query params and gin errors to failed request logs
func failureFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}

	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 && !redactedQueryParams[strings.ToLower(k)] {
			query[k] = v[0]
		}
	}
	if len(query) > 0 {
		fields = append(fields, zap.Any("query_params", query))
	}

	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}

	return fields
}
