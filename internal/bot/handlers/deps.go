// Package handlers contains the Telegram command and message handlers and
// their registration table.
package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/config"
	"github.com/edgard/saansbot/internal/database"
)

// HandlerDeps provides dependencies for Telegram handlers. Store is nil when
// the relay journal is disabled.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Completer ai.Completer
	Store     database.Store
}

// Messenger is the part of the Telegram client the handlers talk to.
// *bot.Bot satisfies it.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

var _ Messenger = (*bot.Bot)(nil)
