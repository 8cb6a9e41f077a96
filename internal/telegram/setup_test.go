package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/bot/handlers"
	"github.com/edgard/saansbot/internal/config"
)

const testToken = "123456:test-token"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type apiCall struct {
	method string
	text   string
}

// fakeAPI answers the Bot API methods the relay uses and records each call.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)
	_ = r.ParseMultipartForm(1 << 20)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, text: r.FormValue("text")})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage":
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeAPI) snapshot() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

type staticCompleter struct{ text string }

func (c staticCompleter) Complete(context.Context, string) ai.Result {
	return ai.Text(c.text)
}

func messageUpdate(text string, commandLen int) *models.Update {
	msg := &models.Message{
		ID:   7,
		Chat: models.Chat{ID: 42, Type: models.ChatTypeGroup},
		From: &models.User{ID: 99},
		Text: text,
	}
	if commandLen > 0 {
		msg.Entities = []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: commandLen}}
	}
	return &models.Update{ID: 1, Message: msg}
}

func TestNewTelegramBot_EmptyToken(t *testing.T) {
	t.Parallel()

	if _, err := NewTelegramBot("", discardLogger()); err == nil {
		t.Fatal("NewTelegramBot(\"\") returned nil error")
	}
}

func TestNewTelegramBot_SkipGetMe(t *testing.T) {
	t.Parallel()

	b, err := NewTelegramBot(testToken, discardLogger(), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("NewTelegramBot() unexpected error: %v", err)
	}
	if b == nil {
		t.Fatal("NewTelegramBot() returned nil bot")
	}
}

func TestBotID(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                  "unknown",
		"no-colon":          "unknown",
		":secret":           "unknown",
		"123456789:ABCDEFG": "123456789",
	}
	for in, want := range tests {
		if got := botID(in); got != want {
			t.Errorf("botID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, update *models.Update) {
				order = append(order, name)
				next(ctx, b, update)
			}
		}
	}
	h := chain(func(context.Context, *bot.Bot, *models.Update) {
		order = append(order, "handler")
	}, []bot.Middleware{mark("outer"), mark("inner")})

	h(context.Background(), nil, &models.Update{})

	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRegisterHandlers_NilBot(t *testing.T) {
	t.Parallel()

	if err := RegisterHandlers(nil, discardLogger(), nil); !errors.Is(err, ErrNilBot) {
		t.Errorf("RegisterHandlers(nil bot) = %v, want ErrNilBot", err)
	}
}

func TestRegisterHandlers_Routing(t *testing.T) {
	t.Parallel()

	const greeting = "greeting text"
	tests := []struct {
		name        string
		update      *models.Update
		wantMethods []string
		wantText    string
	}{
		{name: "start", update: messageUpdate("/start", 6), wantMethods: []string{"sendMessage"}, wantText: greeting},
		{name: "start addressed to this bot", update: messageUpdate("/start@SaansBot", 15), wantMethods: []string{"sendMessage"}, wantText: greeting},
		{name: "start addressed to another bot", update: messageUpdate("/start@OtherBot", 15)},
		{name: "unknown command", update: messageUpdate("/help", 5)},
		{name: "free text", update: messageUpdate("saans phoolti hai", 0), wantMethods: []string{"sendChatAction", "sendMessage"}, wantText: "model reply"},
		{name: "slash text without command", update: messageUpdate("/ mujhe khansi hai", 0), wantMethods: []string{"sendChatAction", "sendMessage"}, wantText: "model reply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{}
			srv := httptest.NewServer(api)
			defer srv.Close()

			cfg := &config.Config{
				Telegram: config.TelegramConfig{BotInfo: &models.User{ID: 123456, Username: "SaansBot", IsBot: true}},
				Messages: config.MessagesConfig{Greeting: greeting, EmptyReply: "empty", ErrorReply: "error"},
			}
			deps := handlers.HandlerDeps{
				Logger:    discardLogger(),
				Config:    cfg,
				Completer: staticCompleter{text: "model reply"},
			}

			b, err := NewTelegramBot(testToken, discardLogger(),
				bot.WithSkipGetMe(),
				bot.WithServerURL(srv.URL),
				bot.WithNotAsyncHandlers(),
				bot.WithDefaultHandler(handlers.NewRelayHandler(deps)),
			)
			if err != nil {
				t.Fatalf("NewTelegramBot() unexpected error: %v", err)
			}
			if err := RegisterHandlers(b, discardLogger(), handlers.RegisterAllCommands(deps)); err != nil {
				t.Fatalf("RegisterHandlers() unexpected error: %v", err)
			}

			b.ProcessUpdate(context.Background(), tt.update)

			calls := api.snapshot()
			if len(calls) != len(tt.wantMethods) {
				t.Fatalf("api calls = %+v, want methods %v", calls, tt.wantMethods)
			}
			for i, want := range tt.wantMethods {
				if calls[i].method != want {
					t.Errorf("call[%d] = %q, want %q", i, calls[i].method, want)
				}
			}
			if n := len(calls); n > 0 && calls[n-1].text != tt.wantText {
				t.Errorf("reply text = %q, want %q", calls[n-1].text, tt.wantText)
			}
		})
	}
}
