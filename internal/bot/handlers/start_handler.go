package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/saansbot/internal/database"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler replies to /start with the configured greeting.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h startHandler) handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil {
		log.WarnContext(ctx, "Start handler received update with nil message", "update_id", update.ID)
		return
	}

	startTime := time.Now()
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID)

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	_, err := m.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.Greeting})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send greeting", "error", err, "chat_id", chatID)
	} else {
		log.DebugContext(ctx, "Successfully sent greeting", "chat_id", chatID)
	}

	recordEvent(ctx, h.deps, update.Message, database.KindCommand, database.OutcomeGreeting, time.Since(startTime), err)
}
