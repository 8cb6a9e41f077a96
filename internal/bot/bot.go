// Package bot wires the relay components together and manages their
// lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Listener receives Telegram updates until ctx is cancelled. *bot.Bot from
// go-telegram satisfies it.
type Listener interface {
	Start(ctx context.Context)
}

// Runner is a component that runs until ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Bot owns the long-lived components of the relay.
type Bot struct {
	logger    *slog.Logger
	listener  Listener
	liveness  Runner
	scheduler *Scheduler
}

// NewBot creates the orchestrator. liveness and scheduler may be nil.
func NewBot(logger *slog.Logger, listener Listener, liveness Runner, scheduler *Scheduler) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		listener:  listener,
		liveness:  liveness,
		scheduler: scheduler,
	}
}

// Run starts the Telegram listener, the liveness endpoint and the scheduler
// and blocks until ctx is cancelled or the listener stops on its own.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")

		b.listener.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	if b.liveness != nil {
		g.Go(func() error {
			b.logger.Info("Starting liveness endpoint...")
			// Liveness problems never stop the relay.
			if err := b.liveness.Run(gCtx); err != nil {
				b.logger.Error("Liveness endpoint failed", "error", err)
			}
			return nil
		})
	}

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
