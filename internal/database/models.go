package database

import "time"

// Event kinds.
const (
	KindCommand = "command"
	KindText    = "text"
)

// Relay outcomes.
const (
	OutcomeGreeting = "greeting"
	OutcomeReply    = "reply"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// RelayEvent records how one inbound message was handled. It deliberately
// carries no message text.
type RelayEvent struct {
	ID        uint      `db:"id"`
	RelayID   string    `db:"relay_id"`
	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Kind      string    `db:"kind"`
	Outcome   string    `db:"outcome"`
	LatencyMS int64     `db:"latency_ms"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
}
