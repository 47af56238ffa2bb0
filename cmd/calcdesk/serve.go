package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alejandrodnm/calcdesk/config"
	"github.com/alejandrodnm/calcdesk/internal/adapters/httpapi"
	"github.com/alejandrodnm/calcdesk/internal/application/calculator"
	"github.com/alejandrodnm/calcdesk/internal/ports"
)

// watchLogLevel aplica en caliente el log.level del archivo de configuración.
func watchLogLevel(ctx context.Context, path string, level *slog.LevelVar) {
	err := config.Watch(ctx, path, func(c *config.Config) {
		if next := parseLevel(c.Log.Level); next != level.Level() {
			level.Set(next)
			slog.Info("log level changed", "level", next)
		}
	})
	if err != nil {
		slog.Warn("config hot-reload disabled", "path", path, "err", err)
	}
}

// runServer sirve la API hasta que ctx se cancela y luego apaga el servidor ordenadamente.
func runServer(ctx context.Context, cfg *config.Config, svc *calculator.Service, charts ports.ChartRenderer) error {
	limiter := httpapi.NewRateLimiter(cfg.HTTP.RateLimitPerSecond, cfg.HTTP.RateLimitBurst)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      limiter.Middleware(httpapi.NewHandler(svc, charts)),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("calcdesk stopped cleanly")
	return nil
}
