package app

import (
	"context"
	"database/sql"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	libdb "voltlog/libs/db"
	"voltlog/services/logbook-service/internal/config"
	"voltlog/services/logbook-service/internal/repository"
	"voltlog/services/logbook-service/internal/service"
)

// App wires logbook service dependencies.
type App struct {
	svc    *service.LogbookService
	cfg    *config.Config
	db     *sql.DB
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}

	telemetryRepo := repository.NewTelemetryRepository(sqlDB, logger)
	logRepo := repository.NewLogRepository(sqlDB)

	thresholds := service.Thresholds{
		Gap:        cfg.Pipeline.Gap.Std(),
		MinSession: cfg.Pipeline.MinSession.Std(),
		DriveSpeed: cfg.Pipeline.DriveSpeed,
	}
	svc := service.NewLogbookService(telemetryRepo, logRepo, thresholds, logger)

	return &App{
		svc:    svc,
		cfg:    cfg,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run executes the pipeline once when no schedule is configured, otherwise
// runs it on the cron schedule until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Pipeline.Schedule == "" {
		return a.runOnce(ctx)
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := scheduler.AddFunc(a.cfg.Pipeline.Schedule, func() {
		if err := a.runOnce(context.Background()); err != nil {
			a.logger.Error("scheduled logbook run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	a.logger.Info("logbook scheduler started", zap.String("schedule", a.cfg.Pipeline.Schedule))
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return ctx.Err()
}

func (a *App) runOnce(ctx context.Context) error {
	runCtx := ctx
	if timeout := a.cfg.Pipeline.RunTimeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := a.svc.Run(runCtx)
	return err
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
