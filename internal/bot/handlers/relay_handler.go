package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/database"
)

// NewRelayHandler returns the default handler. It forwards every free-text
// message to the completer and answers with exactly one reply.
func NewRelayHandler(deps HandlerDeps) bot.HandlerFunc {
	return relayHandler{deps}.Handle
}

type relayHandler struct {
	deps HandlerDeps
}

func (h relayHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h relayHandler) handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "relay")

	msg := update.Message
	if msg == nil {
		log.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
		return
	}
	if strings.TrimSpace(msg.Text) == "" {
		log.DebugContext(ctx, "Ignoring message without text", "chat_id", msg.Chat.ID, "message_id", msg.ID)
		return
	}
	if IsCommand(msg) {
		log.DebugContext(ctx, "Ignoring unknown command", "chat_id", msg.Chat.ID, "message_id", msg.ID)
		return
	}

	chatID := msg.Chat.ID
	startTime := time.Now()

	if _, err := m.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		log.WarnContext(ctx, "Failed to send typing action", "error", err, "chat_id", chatID)
	}

	result := h.deps.Completer.Complete(ctx, msg.Text)

	var (
		reply   string
		outcome string
		cause   error
	)
	switch result.Kind {
	case ai.KindText:
		reply = result.Text
		outcome = database.OutcomeReply
	case ai.KindEmpty:
		reply = h.deps.Config.Messages.EmptyReply
		outcome = database.OutcomeEmpty
		log.InfoContext(ctx, "Completion was empty", "chat_id", chatID, "reason", result.Reason)
	case ai.KindFailed:
		reply = h.deps.Config.Messages.ErrorReply
		outcome = database.OutcomeError
		cause = result.Err
		if cause == nil {
			cause = errors.New("completion failed without a cause")
		}
		log.ErrorContext(ctx, "Completion failed", "error", cause, "chat_id", chatID)
	default:
		reply = h.deps.Config.Messages.ErrorReply
		outcome = database.OutcomeError
		cause = errors.New("unknown completion result kind: " + result.Kind.String())
		log.ErrorContext(ctx, "Completion returned an unknown result", "error", cause, "chat_id", chatID)
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendMessageTimeout)
	defer cancel()
	sent, err := m.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: reply})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID, "outcome", outcome)
		if cause == nil {
			cause = err
		}
	} else {
		log.InfoContext(ctx, "Sent reply", "chat_id", chatID, "message_id", sent.ID, "outcome", outcome)
	}

	recordEvent(ctx, h.deps, msg, database.KindText, outcome, time.Since(startTime), cause)
}
