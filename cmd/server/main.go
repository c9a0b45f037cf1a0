package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/haxgun/valory/internal/config"
	"github.com/haxgun/valory/internal/crypto"
	"github.com/haxgun/valory/internal/database"
	"github.com/haxgun/valory/internal/logging"
	"github.com/haxgun/valory/internal/server"
	"github.com/haxgun/valory/internal/twitch"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupTokenCipher(cfg *config.Config) crypto.TokenCipher {
	if cfg.TokenEncryptionKey == "" {
		return crypto.NoopCipher{}
	}
	cipher, err := crypto.NewAesGcmCipher(cfg.TokenEncryptionKey)
	if err != nil {
		slog.Error("Failed to create token cipher", "error", err)
		os.Exit(1)
	}
	return cipher
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	userRepo := database.NewUserRepo(pool, setupTokenCipher(cfg))
	oauthClient := twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret, cfg.RedirectURI)

	srv := server.NewServer(cfg, userRepo, oauthClient, pool, clock)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
