package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/saansbot/internal/database"
	"github.com/edgard/saansbot/internal/logger"
)

const (
	sendMessageTimeout = 10 * time.Second
	dbSaveTimeout      = 5 * time.Second
)

// recordEvent writes the outcome of one handled message to the relay journal.
// Failures are logged and never reach the user.
func recordEvent(ctx context.Context, deps HandlerDeps, msg *models.Message, kind, outcome string, latency time.Duration, cause error) {
	if deps.Store == nil {
		return
	}

	event := &database.RelayEvent{
		RelayID:   logger.RelayID(ctx),
		ChatID:    msg.Chat.ID,
		Kind:      kind,
		Outcome:   outcome,
		LatencyMS: latency.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	if msg.From != nil {
		event.UserID = msg.From.ID
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dbSaveTimeout)
	defer cancel()
	if err := deps.Store.RecordRelayEvent(dbCtx, event); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to record relay event", "error", err, "chat_id", event.ChatID, "outcome", outcome)
	}
}
