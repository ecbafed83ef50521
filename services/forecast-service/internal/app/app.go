package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libdb "voltlog/libs/db"
	libredis "voltlog/libs/redis"
	"voltlog/services/forecast-service/internal/config"
	httpserver "voltlog/services/forecast-service/internal/http"
	"voltlog/services/forecast-service/internal/http/handlers"
	redisstore "voltlog/services/forecast-service/internal/redis"
	"voltlog/services/forecast-service/internal/repository"
	"voltlog/services/forecast-service/internal/service"
)

// App wires forecast service dependencies.
type App struct {
	server      *httpserver.Server
	svc         *service.ForecastService
	cfg         *config.Config
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	socRepo := repository.NewSocRepository(sqlDB)
	cache := redisstore.NewStore(redisClient, cfg.Redis.TTL.Std())
	svc := service.NewForecastService(socRepo, cache, cfg.Forecast.Window.Std(), cfg.Forecast.Workers, logger)

	routes := httpserver.Routes{
		Prediction: handlers.NewPredictionHandler(svc, cache, logger),
		Health:     handlers.NewHealthHandler(),
	}
	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		svc:         svc,
		cfg:         cfg,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run serves HTTP and runs the forecast sweep on its schedule until the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.server.Run(groupCtx)
	})

	if a.cfg.Forecast.Schedule != "" {
		scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		_, err := scheduler.AddFunc(a.cfg.Forecast.Schedule, func() {
			if _, err := a.svc.Sweep(context.Background()); err != nil {
				a.logger.Error("forecast sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		group.Go(func() error {
			a.logger.Info("forecast scheduler started", zap.String("schedule", a.cfg.Forecast.Schedule))
			scheduler.Start()
			<-groupCtx.Done()
			<-scheduler.Stop().Done()
			return groupCtx.Err()
		})
	}

	return group.Wait()
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
