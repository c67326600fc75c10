package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"eventxplore/internal/config"
	"eventxplore/internal/lib/logger/handlers/slogpretty"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/stubserver"
	"eventxplore/internal/stubserver/storage/sqlite"
	"eventxplore/internal/stubserver/token"
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

	log.Info("starting stub boundary", slog.String("env", cfg.Env))

	storage, err := sqlite.New(cfg.Stub.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err := stubserver.Seed(storage); err != nil {
		log.Error("failed to seed demo data", sl.Err(err))
		os.Exit(1)
	}

	router := stubserver.NewRouter(log, storage, stubserver.Options{
		Issuer: token.Issuer{
			Secret: cfg.Stub.TokenSecret,
			TTL:    cfg.Stub.TokenTTL,
		},
		AuthRPS:   cfg.Stub.AuthRPS,
		AuthBurst: cfg.Stub.AuthBurst,
	})

	log.Info("starting server", slog.String("address", cfg.Stub.Address))

	srv := &http.Server{
		Addr:         cfg.Stub.Address,
		Handler:      router,
		ReadTimeout:  cfg.Stub.Timeout,
		WriteTimeout: cfg.Stub.Timeout,
		IdleTimeout:  cfg.Stub.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				today := time.Now().UTC().Format("2006-01-02")
				n, err := storage.FinishPastEvents(today)
				if err != nil {
					log.Error("failed to finish past events", sl.Err(err))
				} else if n > 0 {
					log.Info("finished past events", slog.Int64("count", n))
				}
			case <-done:
				return
			}
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop
	close(done)

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	if err := storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
