package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyayalink/lexdraft/internal/api"
	"github.com/nyayalink/lexdraft/internal/assistant"
	"github.com/nyayalink/lexdraft/internal/config"
	"github.com/nyayalink/lexdraft/internal/draft"
	"github.com/nyayalink/lexdraft/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Draft persistence: remote KV service when configured, local file
	// store otherwise.
	var store draft.Store
	var remote *draft.RemoteStore
	if cfg.DraftStoreURL != "" {
		remote = draft.NewRemoteStore(cfg.DraftStoreURL, cfg.DraftStoreAPIKey, log)
		store = remote
	} else {
		fs, err := draft.NewFileStore(cfg.DataDir, log)
		if err != nil {
			log.Error("open draft store", "dir", cfg.DataDir, "error", err)
			os.Exit(1)
		}
		store = fs
	}

	ai := assistant.NewClient(cfg.GoogleAPIKey, cfg.GeminiModel)

	sessions := session.NewRegistry(cfg.SessionTTL)
	sessions.Start(ctx)

	srv := api.NewServer(store, sessions, ai, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		ai.Close()
		if remote != nil {
			remote.Close()
		}
	}()

	log.Info("starting lexdraft", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
