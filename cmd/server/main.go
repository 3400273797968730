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

	"github.com/listkeeper/backend/internal/api"
	"github.com/listkeeper/backend/internal/codec"
	"github.com/listkeeper/backend/internal/docfile"
	"github.com/listkeeper/backend/internal/infrastructure/config"
	"github.com/listkeeper/backend/internal/service"
	"github.com/listkeeper/backend/internal/state"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	registry, err := docfile.OpenRegistry(cfg.RegistryDB)
	if err != nil {
		logger.Error("failed to open document registry", "error", err)
		os.Exit(1)
	}
	defer registry.Close()

	store := state.New(logger)
	autosave := service.NewAutosave(store, codec.Encode, logger, cfg.AutosaveDelay)
	documents := service.NewDocuments(store, autosave, registry, logger)

	// Open the configured document, or fall back to the last one used.
	// Starting without a document is fine; one can be opened over the
	// API at any time.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	switch {
	case cfg.DataFile != "":
		if err := documents.Open(startupCtx, cfg.DataFile); err != nil {
			logger.Error("failed to open document", "path", cfg.DataFile, "error", err)
			os.Exit(1)
		}
	default:
		if err := documents.OpenLast(startupCtx); err != nil {
			if errors.Is(err, docfile.ErrNotFound) {
				logger.Info("no previous document, starting empty")
			} else {
				logger.Warn("could not reopen last document, starting empty", "error", err)
			}
		}
	}
	cancelStartup()

	handler := api.NewHandler(store, documents, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := documents.Save(ctx); err != nil && !errors.Is(err, service.ErrNoDocument) {
			logger.Error("final save failed", "error", err)
		}
		documents.Close()
		autosave.Close()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
