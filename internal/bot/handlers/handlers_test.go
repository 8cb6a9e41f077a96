package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/config"
	"github.com/edgard/saansbot/internal/database"
	"github.com/edgard/saansbot/internal/logger"
)

type fakeMessenger struct {
	mu        sync.Mutex
	calls     []string
	sent      []*bot.SendMessageParams
	actionErr error
	sendErr   error
}

func (f *fakeMessenger) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "message")
	f.sent = append(f.sent, params)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &models.Message{ID: len(f.sent)}, nil
}

func (f *fakeMessenger) SendChatAction(_ context.Context, params *bot.SendChatActionParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "action:"+string(params.Action))
	if f.actionErr != nil {
		return false, f.actionErr
	}
	return true, nil
}

type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	result  ai.Result
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) ai.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.result
}

type fakeStore struct {
	database.Store

	mu        sync.Mutex
	events    []*database.RelayEvent
	recordErr error
}

func (f *fakeStore) RecordRelayEvent(_ context.Context, event *database.RelayEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.events = append(f.events, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Messages: config.MessagesConfig{
			Greeting:   "greeting text",
			EmptyReply: "empty text",
			ErrorReply: "error text",
		},
	}
}

func testDeps(c ai.Completer, s database.Store) HandlerDeps {
	return HandlerDeps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:    testConfig(),
		Completer: c,
		Store:     s,
	}
}

func textUpdate(text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   7,
			Chat: models.Chat{ID: 42},
			From: &models.User{ID: 99},
			Text: text,
		},
	}
}

func commandUpdate(text string, length int) *models.Update {
	u := textUpdate(text)
	u.Message.Entities = []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: length}}
	return u
}

func TestStartHandler_SendsGreetingWithoutCompletion(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{}
	c := &fakeCompleter{result: ai.Text("unused")}
	s := &fakeStore{}
	startHandler{testDeps(c, s)}.handle(context.Background(), m, commandUpdate("/start", 6))

	if len(m.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(m.sent))
	}
	if m.sent[0].Text != "greeting text" {
		t.Errorf("greeting = %q, want %q", m.sent[0].Text, "greeting text")
	}
	if m.sent[0].ChatID != int64(42) {
		t.Errorf("ChatID = %v, want 42", m.sent[0].ChatID)
	}
	if len(c.prompts) != 0 {
		t.Errorf("completer called %d times, want 0", len(c.prompts))
	}
	if len(s.events) != 1 || s.events[0].Outcome != database.OutcomeGreeting || s.events[0].Kind != database.KindCommand {
		t.Errorf("journal events = %+v, want one greeting command event", s.events)
	}
}

func TestRelayHandler_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		result      ai.Result
		wantReply   string
		wantOutcome string
		wantError   bool
	}{
		{
			name:        "text is relayed verbatim",
			result:      ai.Text("  Namaste! *Dhyan* rakhiye.\n"),
			wantReply:   "  Namaste! *Dhyan* rakhiye.\n",
			wantOutcome: database.OutcomeReply,
		},
		{
			name:        "empty uses fallback",
			result:      ai.Empty("no candidates"),
			wantReply:   "empty text",
			wantOutcome: database.OutcomeEmpty,
		},
		{
			name:        "failure uses error reply",
			result:      ai.Failed(errors.New("quota exceeded")),
			wantReply:   "error text",
			wantOutcome: database.OutcomeError,
			wantError:   true,
		},
		{
			name:        "failure without cause still uses error reply",
			result:      ai.Result{Kind: ai.KindFailed},
			wantReply:   "error text",
			wantOutcome: database.OutcomeError,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &fakeMessenger{}
			c := &fakeCompleter{result: tt.result}
			s := &fakeStore{}
			ctx := logger.WithRelayID(context.Background(), "relay-1")

			relayHandler{testDeps(c, s)}.handle(ctx, m, textUpdate("mujhe 3 hafte se khansi hai"))

			wantCalls := []string{"action:" + string(models.ChatActionTyping), "message"}
			if len(m.calls) != len(wantCalls) {
				t.Fatalf("calls = %v, want %v", m.calls, wantCalls)
			}
			for i := range wantCalls {
				if m.calls[i] != wantCalls[i] {
					t.Errorf("calls[%d] = %q, want %q", i, m.calls[i], wantCalls[i])
				}
			}
			if m.sent[0].Text != tt.wantReply {
				t.Errorf("reply = %q, want %q", m.sent[0].Text, tt.wantReply)
			}
			if len(c.prompts) != 1 || c.prompts[0] != "mujhe 3 hafte se khansi hai" {
				t.Errorf("prompts = %q, want the message text once", c.prompts)
			}

			if len(s.events) != 1 {
				t.Fatalf("journal events = %d, want 1", len(s.events))
			}
			ev := s.events[0]
			if ev.Outcome != tt.wantOutcome {
				t.Errorf("event outcome = %q, want %q", ev.Outcome, tt.wantOutcome)
			}
			if ev.RelayID != "relay-1" || ev.ChatID != 42 || ev.UserID != 99 || ev.Kind != database.KindText {
				t.Errorf("event = %+v, want relay-1/42/99/text", ev)
			}
			if (ev.Error != "") != tt.wantError {
				t.Errorf("event error = %q, wantError %v", ev.Error, tt.wantError)
			}
		})
	}
}

func TestRelayHandler_IgnoredUpdates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update *models.Update
	}{
		{name: "no message", update: &models.Update{ID: 3}},
		{name: "no text", update: textUpdate("")},
		{name: "blank text", update: textUpdate("   ")},
		{name: "unknown command entity", update: commandUpdate("/help me", 5)},
		{name: "command for another bot", update: commandUpdate("/start@OtherBot", 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &fakeMessenger{}
			c := &fakeCompleter{result: ai.Text("unused")}
			s := &fakeStore{}
			relayHandler{testDeps(c, s)}.handle(context.Background(), m, tt.update)

			if len(m.calls) != 0 {
				t.Errorf("messenger calls = %v, want none", m.calls)
			}
			if len(c.prompts) != 0 {
				t.Errorf("completer called %d times, want 0", len(c.prompts))
			}
			if len(s.events) != 0 {
				t.Errorf("journal events = %d, want 0", len(s.events))
			}
		})
	}
}

func TestRelayHandler_TypingFailureDoesNotBlockReply(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{actionErr: errors.New("forbidden")}
	c := &fakeCompleter{result: ai.Text("reply")}
	relayHandler{testDeps(c, nil)}.handle(context.Background(), m, textUpdate("hello"))

	if len(c.prompts) != 1 {
		t.Fatalf("completer called %d times, want 1", len(c.prompts))
	}
	if len(m.sent) != 1 || m.sent[0].Text != "reply" {
		t.Errorf("sent = %+v, want one reply", m.sent)
	}
}

func TestRelayHandler_JournalFailureIsContained(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{}
	c := &fakeCompleter{result: ai.Text("reply")}
	s := &fakeStore{recordErr: errors.New("disk full")}
	relayHandler{testDeps(c, s)}.handle(context.Background(), m, textUpdate("hello"))

	if len(m.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(m.sent))
	}
}

func TestRelayHandler_SendFailureIsJournaled(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{sendErr: errors.New("message is too long")}
	c := &fakeCompleter{result: ai.Text("reply")}
	s := &fakeStore{}
	relayHandler{testDeps(c, s)}.handle(context.Background(), m, textUpdate("hello"))

	if len(m.sent) != 1 {
		t.Fatalf("send attempts = %d, want 1", len(m.sent))
	}
	if len(s.events) != 1 || s.events[0].Error == "" {
		t.Errorf("journal events = %+v, want one event carrying the send error", s.events)
	}
}

func TestRegisterAllCommands(t *testing.T) {
	t.Parallel()

	cmds := RegisterAllCommands(testDeps(&fakeCompleter{}, nil))
	if len(cmds) != 1 {
		t.Fatalf("RegisterAllCommands() returned %d handlers, want 1", len(cmds))
	}
	start, ok := cmds["/start"]
	if !ok {
		t.Fatal("RegisterAllCommands() missing /start")
	}
	if start.MatchFunc == nil || start.Handler == nil {
		t.Fatalf("/start registration = %+v, want match func and handler", start)
	}
	if !start.MatchFunc(commandUpdate("/start", 6)) {
		t.Error("/start match func rejected /start")
	}
}

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *models.Message
		want bool
	}{
		{name: "plain text", msg: &models.Message{Text: "saans phoolti hai"}, want: false},
		{name: "command entity", msg: &models.Message{Text: "/start", Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 6}}}, want: true},
		{name: "command later in text", msg: &models.Message{Text: "try /start", Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 4, Length: 6}}}, want: false},
		{name: "addressed command", msg: &models.Message{Text: "/start@SaansBot", Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 15}}}, want: true},
		{name: "slash without entity", msg: &models.Message{Text: "/ mujhe khansi hai"}, want: false},
		{name: "double slash", msg: &models.Message{Text: "//"}, want: false},
	}
	for _, tt := range tests {
		if got := IsCommand(tt.msg); got != tt.want {
			t.Errorf("%s: IsCommand() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRelayHandler_SlashTextWithoutCommandIsRelayed(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"/ mujhe khansi hai", "//"} {
		m := &fakeMessenger{}
		c := &fakeCompleter{result: ai.Text("reply")}
		relayHandler{testDeps(c, nil)}.handle(context.Background(), m, textUpdate(text))

		if len(c.prompts) != 1 || c.prompts[0] != text {
			t.Errorf("%q: prompts = %q, want the text once", text, c.prompts)
		}
		if len(m.sent) != 1 {
			t.Errorf("%q: sent %d messages, want 1", text, len(m.sent))
		}
	}
}

func TestMatchCommand(t *testing.T) {
	t.Parallel()

	withUsername := testDeps(&fakeCompleter{}, nil)
	withUsername.Config.Telegram.BotInfo = &models.User{ID: 1, Username: "SaansBot"}
	unknownUsername := testDeps(&fakeCompleter{}, nil)

	tests := []struct {
		name   string
		deps   HandlerDeps
		update *models.Update
		want   bool
	}{
		{name: "plain", deps: withUsername, update: commandUpdate("/start", 6), want: true},
		{name: "with arguments", deps: withUsername, update: commandUpdate("/start hello", 6), want: true},
		{name: "addressed to this bot", deps: withUsername, update: commandUpdate("/start@SaansBot", 15), want: true},
		{name: "addressed case-insensitively", deps: withUsername, update: commandUpdate("/start@saansbot", 15), want: true},
		{name: "addressed to another bot", deps: withUsername, update: commandUpdate("/start@OtherBot", 15), want: false},
		{name: "username not yet known", deps: unknownUsername, update: commandUpdate("/start@SaansBot", 15), want: true},
		{name: "other command", deps: withUsername, update: commandUpdate("/started", 8), want: false},
		{name: "no entity", deps: withUsername, update: textUpdate("/start"), want: false},
		{name: "no message", deps: withUsername, update: &models.Update{ID: 2}, want: false},
	}
	for _, tt := range tests {
		if got := MatchCommand("start", tt.deps)(tt.update); got != tt.want {
			t.Errorf("%s: MatchCommand(start) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
