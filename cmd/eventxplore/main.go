package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"eventxplore/internal/api"
	"eventxplore/internal/cli"
	"eventxplore/internal/config"
	"eventxplore/internal/lib/logger/handlers/slogpretty"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/session"
	"eventxplore/internal/session/tokenfile"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	tokens, err := tokenfile.New(cfg.Client.StateDir)
	if err != nil {
		log.Error("failed to init token store", sl.Err(err))
		os.Exit(1)
	}

	client := api.New(log, cfg.Client.BaseURL, cfg.Client.Timeout, tokens)
	sess := session.New(log, client, tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// a stale or rejected token silently downgrades to anonymous here
	sess.Restore(ctx)

	app := cli.New(log, client, sess)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		// keep command output clean, log only warnings and up
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelWarn},
		}
		log = slog.New(opts.NewPrettyHandler(os.Stderr))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}
