// Package telegram creates the go-telegram client and registers the bot's
// handlers on it.
package telegram

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"

	"github.com/edgard/saansbot/internal/bot/handlers"
)

// ErrNilBot is returned when handlers are registered on a nil client.
var ErrNilBot = errors.New("telegram bot instance is nil")

// NewTelegramBot creates the go-telegram client. opts carry the default
// handler, middleware and error handler.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_client", "bot_id", botID(token))

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Could not create Telegram client", "error", err)
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	log.Info("Telegram client ready", "options", len(opts))
	return b, nil
}

// botID returns the numeric part of a token, which identifies the bot
// without revealing the secret.
func botID(token string) string {
	id, _, found := strings.Cut(token, ":")
	if !found || id == "" {
		return "unknown"
	}
	return id
}

// chain wraps h so that mw[0] runs first.
func chain(h bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RegisterHandlers installs every command handler on b. Handlers with a
// MatchFunc are registered through it; the rest by type and pattern.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return ErrNilBot
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "command_registry")

	count := 0
	for command, rh := range registered {
		if rh.Handler == nil {
			log.Warn("Command has no handler, not registering", "command", command)
			continue
		}

		h := chain(rh.Handler, rh.Middleware)
		if rh.MatchFunc != nil {
			b.RegisterHandlerMatchFunc(rh.MatchFunc, h)
			log.Debug("Command registered", "command", command, "match", "func", "middleware_count", len(rh.Middleware))
		} else {
			b.RegisterHandler(rh.HandlerType, rh.Pattern, rh.MatchType, h)
			log.Debug("Command registered", "command", command, "match", rh.MatchType, "middleware_count", len(rh.Middleware))
		}
		count++
	}

	log.Info("Telegram commands registered", "registered", count, "skipped", len(registered)-count)
	return nil
}
