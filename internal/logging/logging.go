// Package logging builds the process logger and the per-request logger
// attached by the HTTP middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// Config selects the handler used by New
type Config struct {
	// Writer defaults to os.Stdout
	Writer io.Writer
	Level  slog.Leveler
	// Format is "json", "text" or "color"
	Format    string
	AddSource bool
}

// New creates a logger. JSON is meant for production, color for a terminal.
func New(cfg Config) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	case "color", "tint":
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a LOG_LEVEL value to a slog level; unknown values mean info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Err wraps an error as a log attribute
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

const (
	requestIDHeader = "X-Request-ID"
	loggerLocal     = "logger"
)

// Middleware tags each request with an id, stores a request-scoped logger in
// the context locals and logs one line when the request finishes
func Middleware(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The logger outlives the request, so the header value is copied
		requestID := utils.CopyString(c.Get(requestIDHeader))
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(requestIDHeader, requestID)

		reqLogger := base.With(slog.String("request_id", requestID))
		c.Locals(loggerLocal, reqLogger)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		switch {
		case status >= 500:
			reqLogger.Error("request failed", append(attrs, Err(err))...)
		case status >= 400:
			reqLogger.Warn("request rejected", attrs...)
		default:
			reqLogger.Info("request finished", attrs...)
		}

		return err
	}
}

// FromCtx returns the request logger, or the default logger outside a request
func FromCtx(c *fiber.Ctx) *slog.Logger {
	if l, ok := c.Locals(loggerLocal).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
