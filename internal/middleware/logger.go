package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"

	"github.com/theshubhamgundu/sahaaya/pkg/logger"
)

// RequestIDKey is the header carrying the request ID
const RequestIDKey = "X-Request-ID"

func skipLogging(path string) bool {
	return path == "/ping" || strings.HasPrefix(path, "/health/") || strings.HasPrefix(path, "/swagger/")
}

// Logger logs each request and puts a request-scoped logger on the context
func Logger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())

		requestID := string(c.Request.Header.Peek(RequestIDKey))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response.Header.Set(RequestIDKey, requestID)

		if skipLogging(path) {
			c.Next(ctx)
			return
		}

		reqLogger := logger.WithRequestID(slog.Default(), requestID).With(
			"method", string(c.Method()),
			"path", path,
			"client_ip", c.ClientIP(),
		)
		reqLogger.Info("request started")

		c.Next(logger.WithContext(ctx, reqLogger))

		latency := time.Since(start)
		statusCode := c.Response.StatusCode()
		done := reqLogger.With(
			"status", statusCode,
			"latency_ms", latency.Milliseconds(),
		)
		switch {
		case statusCode >= 500:
			done.Error("request completed with server error")
		case statusCode >= 400:
			done.Warn("request completed with client error")
		default:
			done.Info("request completed")
		}
	}
}

// GetRequestID returns the request ID assigned by Logger
func GetRequestID(c *app.RequestContext) string {
	return string(c.Response.Header.Peek(RequestIDKey))
}
