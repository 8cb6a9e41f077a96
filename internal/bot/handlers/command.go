package handlers

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ParseCommand returns the command that opens msg, split into its name and
// the optional @username it is addressed to. Only a bot_command entity at
// offset 0 counts; a bare leading slash is ordinary text.
func ParseCommand(msg *models.Message) (name, target string, ok bool) {
	if msg == nil {
		return "", "", false
	}
	for _, e := range msg.Entities {
		if e.Type != models.MessageEntityTypeBotCommand || e.Offset != 0 {
			continue
		}
		// Commands are ASCII, so UTF-16 and byte lengths agree here.
		if e.Length < 2 || e.Length > len(msg.Text) {
			return "", "", false
		}
		cmd := msg.Text[1:e.Length]
		name, target, _ = strings.Cut(cmd, "@")
		return strings.ToLower(name), target, true
	}
	return "", "", false
}

// IsCommand reports whether msg starts with a bot command.
func IsCommand(msg *models.Message) bool {
	_, _, ok := ParseCommand(msg)
	return ok
}

// MatchCommand matches "/<name>" and "/<name>@<bot username>". Commands
// addressed to another bot do not match. Until the bot username is known any
// target is accepted.
func MatchCommand(name string, deps HandlerDeps) tgbot.MatchFunc {
	name = strings.ToLower(name)
	return func(update *models.Update) bool {
		if update == nil || update.Message == nil {
			return false
		}
		cmd, target, ok := ParseCommand(update.Message)
		if !ok || cmd != name {
			return false
		}
		if target == "" {
			return true
		}
		username := botUsername(deps)
		return username == "" || strings.EqualFold(target, username)
	}
}

func botUsername(deps HandlerDeps) string {
	if deps.Config == nil || deps.Config.Telegram.BotInfo == nil {
		return ""
	}
	return deps.Config.Telegram.BotInfo.Username
}
