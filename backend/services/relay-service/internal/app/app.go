package app

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "powerrelay/backend/libs/redis"
	"powerrelay/backend/services/relay-service/internal/clients"
	"powerrelay/backend/services/relay-service/internal/config"
	httpserver "powerrelay/backend/services/relay-service/internal/http"
	"powerrelay/backend/services/relay-service/internal/http/handlers"
	redisstore "powerrelay/backend/services/relay-service/internal/redis"
	"powerrelay/backend/services/relay-service/internal/scheduler"
	"powerrelay/backend/services/relay-service/internal/service"
	"powerrelay/backend/services/relay-service/internal/telegram"
	"powerrelay/backend/services/relay-service/internal/udp"
)

// App wires relay service dependencies.
type App struct {
	relay       *service.RelayService
	server      *httpserver.Server
	redisClient *redis.Client
	cfg         *config.Config
	logger      *zap.Logger
}

// New constructs application components.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	reporting := clients.NewReportingClient(clients.ReportingOptions{
		URL:     cfg.Source.URL,
		OrgCode: cfg.Source.OrgCode,
		Type:    cfg.Source.Type,
		Timeout: cfg.Source.Timeout,
	}, logger)
	builder := telegram.NewBuilder(nil, loc, logger)
	sender := udp.NewSender(cfg.TargetAddress(), cfg.Target.WriteTimeout, logger)

	opts := service.Options{
		Tracker:      service.NewStatusTracker(),
		Location:     loc,
		CycleTimeout: cfg.CycleTimeout(),
	}

	a := &App{cfg: cfg, logger: logger}

	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.redisClient = client
		store := redisstore.NewStatusStore(client, cfg.Source.OrgCode, cfg.StatusTTL())
		previous, err := store.Get(ctx)
		switch {
		case err == nil:
			opts.Tracker.Restore(*previous)
		case err != redis.Nil:
			logger.Warn("failed to load published status", zap.Error(err))
		}
		opts.Publisher = store
	}

	a.relay = service.NewRelayService(reporting, builder, sender, opts, logger)

	if addr := cfg.HTTPAddress(); addr != "" {
		tracker := a.relay.Tracker()
		routes := httpserver.Routes{
			Health: handlers.NewHealthHandler(tracker, 2*cfg.Schedule.Interval, nil),
			Status: handlers.NewStatusHandler(tracker),
		}
		a.server = httpserver.NewServer(addr, httpserver.NewRouter(routes), logger)
		if err := a.server.Listen(); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Run starts the scheduler and, when enabled, the HTTP server. It blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("relay starting",
		zap.String("source", a.cfg.Source.URL),
		zap.String("org_code", a.cfg.Source.OrgCode),
		zap.String("target", a.cfg.TargetAddress()),
		zap.Duration("interval", a.cfg.Schedule.Interval),
	)

	errCh := make(chan error, 1)
	if a.server != nil {
		go func() {
			errCh <- a.server.Run(ctx)
		}()
	}

	err := scheduler.Run(ctx, a.cfg.Schedule.Interval, a.relay.Run, a.logger)

	if a.server != nil {
		if serverErr := <-errCh; serverErr != nil {
			a.logger.Warn("http server stopped with error", zap.Error(serverErr))
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases resources.
func (a *App) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
