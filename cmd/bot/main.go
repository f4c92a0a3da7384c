// Package main contains the entrypoint for the chatlens Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/chatlens/internal/bot"
	"github.com/edgard/chatlens/internal/bot/handlers"
	"github.com/edgard/chatlens/internal/bot/tasks"
	"github.com/edgard/chatlens/internal/config"
	"github.com/edgard/chatlens/internal/logger"
	"github.com/edgard/chatlens/internal/pipeline"
	"github.com/edgard/chatlens/internal/session"
	"github.com/edgard/chatlens/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires configuration, logging, the analysis pipeline, the Telegram
// client and the scheduler, then blocks until shutdown. It returns the
// process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}
	if err := cfg.ValidateBot(); err != nil {
		slog.Error("Invalid bot configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON, os.Stdout)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	p, err := pipeline.New(cfg, cfg.Telegram.MaxUploadBytes, log)
	if err != nil {
		log.Error("Failed to build analysis pipeline", "error", err)
		return 1
	}
	sessions := session.NewStore()

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Pipeline: p,
		Sessions: sessions,
	}
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Sessions: sessions,
		Config:   cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewFallbackHandler(hDeps)),
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

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.PublishCommands(ctx, tg, log, cmdHandlers); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
