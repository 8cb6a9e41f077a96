// Package main contains the entrypoint for the Telegram relay bot.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/edgard/saansbot/internal/ai/provider"
	"github.com/edgard/saansbot/internal/bot"
	"github.com/edgard/saansbot/internal/bot/handlers"
	"github.com/edgard/saansbot/internal/bot/tasks"
	"github.com/edgard/saansbot/internal/config"
	"github.com/edgard/saansbot/internal/database"
	"github.com/edgard/saansbot/internal/liveness"
	"github.com/edgard/saansbot/internal/logger"
	"github.com/edgard/saansbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	if err := newRootCommand(&exitCode).ExecuteContext(ctx); err != nil {
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}

// loadEnvFile loads KEY=VALUE pairs from path into the environment. Variables
// that are already set win, and a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// run initializes and starts all application components and returns the
// process exit code.
func run(ctx context.Context, opts options) int {
	if err := loadEnvFile(opts.envFile); err != nil {
		slog.Error("Failed to load env file", "path", opts.envFile, "error", err)
		return 1
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrMissingToken):
			slog.Error("Bot token is not configured. Set BOT_TOKEN and restart.", "error", err)
		case errors.Is(err, config.ErrMissingAPIKey):
			slog.Error("Model API key is not configured.", "error", err)
		default:
			slog.Error("Failed to load configuration", "path", opts.configPath, "error", err)
		}
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	var store database.Store
	if cfg.Database.Enabled() {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to open relay journal", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store = database.NewStore(db, log)
		log.Info("Relay journal enabled", "path", cfg.Database.Path, "retention", cfg.Database.Retention)
	}

	completer, err := provider.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize completion client", "provider", cfg.AI.Provider, "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Completer: completer,
		Store:     store,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewRelayHandler(hDeps)),
		tgbot.WithErrorsHandler(func(err error) {
			log.Error("Telegram polling error", "error", err)
		}),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, tg, liveness.NewServer(cfg.HTTP.Port, log), sched)

	log.Info("Starting bot...", "provider", cfg.AI.Provider, "port", cfg.HTTP.Port)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
