package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"imoveis/internal/infra/config"
	ginserver "imoveis/internal/infra/http/gin"
	"imoveis/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLogger := newLogger(cfg)
	defer closeLogger()
	slog.SetDefault(logger)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		closeLogger()
		os.Exit(1)
	}
	defer app.close()

	if err := app.seed(ctx); err != nil {
		logger.Warn("listing fixtures not loaded", "error", err)
	}
	app.startBackground(ctx)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		stop()
		app.close()
		os.Exit(1)
	}
	app.wait()
	logger.Info("HTTP server stopped")
}

// newLogger builds the process logger and, when FLUENT_HOST is set, fans
// warnings and errors out to fluentd.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	opts := obs.LoggerOptions{Level: cfg.LogLevel}
	if cfg.FluentHost == "" {
		return obs.NewLogger(cfg.Env, opts), func() {}
	}
	client, err := obs.NewFluentClient(obs.FluentConfig{Host: cfg.FluentHost, Port: cfg.FluentPort, TagPrefix: "imoveis"})
	if err != nil {
		logger := obs.NewLogger(cfg.Env, opts)
		logger.Warn("fluentd disabled", "error", err)
		return logger, func() {}
	}
	opts.Sinks = append(opts.Sinks, obs.NewFluentHandler(client, slog.LevelWarn))
	return obs.NewLogger(cfg.Env, opts), func() { _ = client.Close() }
}
