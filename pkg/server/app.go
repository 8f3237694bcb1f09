package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FlowShift/internal/services/ticker"
	"FlowShift/internal/usecase"
	"FlowShift/pkg/cache"
	"FlowShift/pkg/config"
	xhttp "FlowShift/pkg/http"
	applogger "FlowShift/pkg/logger"
)

// HTTPServer is the part of xhttp.Server the app drives.
type HTTPServer interface {
	Start() error
	Stop(ctx context.Context) error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	ticker     *ticker.Ticker
	feed       *usecase.QuoteFeed
	cache      cache.Service
	httpServer HTTPServer
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	tk *ticker.Ticker,
	feed *usecase.QuoteFeed,
	store cache.Service,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		ticker:     tk,
		feed:       feed,
		cache:      store,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the feed, the ticker and the HTTP server, then blocks
// until ctx is cancelled and shuts everything down.
func (a *App) RunContext(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	a.feed.Start(runCtx)

	handle, err := a.ticker.Start(runCtx)
	if err != nil {
		_ = a.feed.Shutdown(runCtx)
		return fmt.Errorf("start ticker: %w", err)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		handle.Stop()
		_ = a.feed.Shutdown(runCtx)
		if a.cache != nil {
			_ = a.cache.Close()
		}
		return fmt.Errorf("start http server: %w", err)
	}
	a.log.Info("flowshift started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("symbol", a.cfg.Simulator.DefaultSymbol),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown(runCtx, handle)
}

// shutdown stops the ticker first so no tick races the publisher close.
func (a *App) shutdown(ctx context.Context, handle *ticker.Handle) error {
	handle.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	if err := a.feed.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("quote feed stop error", applogger.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
