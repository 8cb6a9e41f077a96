package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its match rules and
// middleware. When MatchFunc is set it replaces HandlerType, Pattern and
// MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	MatchType   tgbot.MatchType
	MatchFunc   tgbot.MatchFunc
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
}

// RegisterAllCommands returns the command handlers keyed by command name.
// Free text is served by the default handler from NewRelayHandler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		Pattern:   "start",
		MatchFunc: MatchCommand("start", deps),
		Handler:   NewStartHandler(deps),
	}

	return handlers
}
