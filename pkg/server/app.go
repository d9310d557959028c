package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
)

// sweepInterval paces the cache housekeeping loop. Freshness is enforced
// lazily on read; the sweep only reclaims memory and feeds the logs.
const sweepInterval = 5 * time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	store      *cache.Store
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, logger *applogger.Logger, store *cache.Store, handler xhttp.Handler) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		handler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout.Std(), a.cfg.Server.WriteTimeout.Std(), a.cfg.Server.ShutdownTimeout.Std()),
	)

	go a.sweepLoop(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// sweepLoop periodically evicts expired cache entries.
func (a *App) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted, err := a.store.ClearExpired(ctx)
			if err != nil {
				a.logger.Warn("cache sweep error", applogger.Error(err))
				continue
			}
			if evicted > 0 {
				a.logger.Debug("cache sweep", applogger.Int("evicted", evicted))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warn("cache close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
