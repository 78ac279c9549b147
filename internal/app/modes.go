package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/engine"
	"github.com/paperdex/paperdex/internal/server"
	"github.com/paperdex/paperdex/internal/server/handler"
	"github.com/paperdex/paperdex/internal/server/ws"
)

// SimMode runs the full simulation loop: periodic snapshot scans, position
// lifecycle, and the HTTP/WebSocket API when the server is enabled.
func (a *App) SimMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting sim mode",
		slog.Duration("scan_interval", a.cfg.ScanInterval()),
		slog.Float64("starting_balance", a.cfg.Sim.StartingBalance),
	)

	g, ctx := errgroup.WithContext(ctx)

	hub := a.startHTTPServer(ctx, g, deps)

	eng := engine.New(
		deps.Feed,
		deps.Cache,
		deps.Ledger,
		newFanout(hubPublisher(hub), redisPublisher(deps)),
		deps.Notifier,
		engine.Config{
			ScanInterval:    a.cfg.ScanInterval(),
			TopPairs:        a.cfg.Sim.TopPairs,
			MinLiquidityUSD: a.cfg.Sim.MinLiquidityUSD,
		},
		a.logger,
	)
	g.Go(func() error {
		return eng.Run(ctx)
	})

	return g.Wait()
}

// MonitorMode fetches and caches snapshots without touching the ledger. The
// HTTP server always runs so the cached market data can be consumed.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode",
		slog.Duration("scan_interval", a.cfg.ScanInterval()),
	)

	g, ctx := errgroup.WithContext(ctx)

	hub := a.startHTTPServer(ctx, g, deps)

	eng := engine.New(
		deps.Feed,
		deps.Cache,
		deps.Ledger,
		newFanout(hubPublisher(hub), redisPublisher(deps)),
		deps.Notifier,
		engine.Config{
			ScanInterval:    a.cfg.ScanInterval(),
			TopPairs:        a.cfg.Sim.TopPairs,
			MinLiquidityUSD: a.cfg.Sim.MinLiquidityUSD,
			MonitorOnly:     true,
		},
		a.logger,
	)
	g.Go(func() error {
		return eng.Run(ctx)
	})

	return g.Wait()
}

// ServerMode serves the status API over an idle ledger. No scans run, so the
// snapshot endpoint stays empty until the mode is switched.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)

	return g.Wait()
}

// startHTTPServer adds the HTTP server and WebSocket hub goroutines to the
// errgroup and returns the hub for event publishing. It returns nil when the
// server is disabled; monitor and server modes exist to serve the API, so
// they always run it.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) *ws.Hub {
	if !a.cfg.Server.Enabled && a.cfg.Mode == "sim" {
		return nil
	}

	hub := ws.NewHub(a.cfg.Mode, a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health:    handler.NewHealthHandler(a.logger),
			Status:    handler.NewStatusHandler(deps.Ledger, a.cfg.Mode),
			Positions: handler.NewPositionHandler(deps.Ledger),
			Pairs:     handler.NewPairsHandler(deps.Cache, a.logger),
		},
		hub,
		a.logger,
	)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return hub
}

// hubPublisher returns the hub as an EventPublisher, or nil when the server
// is disabled. The indirection avoids a typed-nil interface.
func hubPublisher(hub *ws.Hub) domain.EventPublisher {
	if hub == nil {
		return nil
	}
	return hub
}

// redisPublisher returns the Redis event bus as an EventPublisher, or nil
// when Redis is disabled.
func redisPublisher(deps *Dependencies) domain.EventPublisher {
	if deps.EventBus == nil {
		return nil
	}
	return deps.EventBus
}
