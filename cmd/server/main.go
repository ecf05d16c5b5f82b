package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/notepen/internal/api"
	"github.com/dgallion1/notepen/internal/config"
	"github.com/dgallion1/notepen/internal/note"
	"github.com/dgallion1/notepen/internal/pathstore"
	"github.com/dgallion1/notepen/internal/pipeline"
	"github.com/dgallion1/notepen/internal/session"
	"github.com/dgallion1/notepen/internal/store"
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

	st, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	log.Info("store ready", "backend", cfg.StoreBackend)

	notes := note.NewRepository(st)

	orch := pipeline.NewOrchestrator(cfg, notes, log)
	orch.Start(ctx)

	sessions := session.NewRegistry(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	srv := api.NewServer(ctx, orch, notes, st, sessions, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		// Closes every open session.
		cancel()

		if err := closeStore(); err != nil {
			log.Warn("close store", "error", err)
		}
	}()

	log.Info("starting notepen", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (store.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLiteDir)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendPathstore:
		client := pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		return store.NewRemote(client, "notepen"), func() error {
			client.Close()
			return nil
		}, nil
	case config.BackendMemory, "":
		return store.NewMemory(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
