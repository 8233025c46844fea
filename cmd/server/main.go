package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/contact/internal/config"
	"github.com/portfolio/contact/internal/handler"
	"github.com/portfolio/contact/internal/logging"
	"github.com/portfolio/contact/internal/repository"
	"github.com/portfolio/contact/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	contactRepo, err := repository.Open(connectCtx, cfg)
	cancel()
	if err != nil {
		logging.Fatal("failed to connect to database", "driver", cfg.StoreDriver, "error", err)
	}
	slog.Info("database connected", "driver", cfg.StoreDriver)

	contactService := service.NewContactService(contactRepo, service.WithStoreTimeout(cfg.StoreTimeout))

	h := handler.New(contactRepo, cfg.CORSOrigins)
	contactHandler := handler.NewContactHandler(contactService, cfg.TrustedProxyCount)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(h, contactHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.StoreTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := contactRepo.Close(shutdownCtx); err != nil {
		slog.Error("database close error", "error", err)
	}
	slog.Info("server stopped")
}
