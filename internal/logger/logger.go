// Package logger provides structured logging for the bot. It uses Go's slog
// package with a configurable level and format, and a go-telegram middleware
// that logs every update with a per-update relay ID.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const textPreviewLen = 50

type relayIDKey struct{}

// NewLogger creates a slog Logger writing to stdout with the given level and
// format ("json" or "text") and installs it as the default logger.
func NewLogger(levelStr, format string) *slog.Logger {
	logger := New(os.Stdout, levelStr, format)
	slog.SetDefault(logger)
	return logger
}

// New creates a slog Logger writing to w without touching the default logger.
func New(w io.Writer, levelStr, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRelayID returns a context carrying the relay ID of the update being handled.
func WithRelayID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, relayIDKey{}, id)
}

// RelayID returns the relay ID stored by Middleware, or "" outside an update.
func RelayID(ctx context.Context) string {
	id, _ := ctx.Value(relayIDKey{}).(string)
	return id
}

// Middleware assigns a relay ID to every update and logs when handling starts
// and finishes.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			relayID := uuid.NewString()
			ctx = WithRelayID(ctx, relayID)

			logEntry := log.With("update_id", update.ID, "relay_id", relayID)
			if msg := update.Message; msg != nil {
				var userID int64
				if msg.From != nil {
					userID = msg.From.ID
				}
				logEntry = logEntry.With(
					"update_type", "message",
					"message_id", msg.ID,
					"chat_id", msg.Chat.ID,
					"user_id", userID,
					"text_preview", truncateString(msg.Text, textPreviewLen),
				)
			} else {
				logEntry = logEntry.With("update_type", "other")
			}

			logEntry.InfoContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

// truncateString shortens s to at most maxLen runes, marking the cut with "...".
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
