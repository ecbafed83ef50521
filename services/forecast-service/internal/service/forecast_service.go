package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voltlog/services/forecast-service/internal/models"
)

// SocSource reads recent soc samples, newest first.
type SocSource interface {
	RecentSoc(ctx context.Context, since int64) (map[string][]models.SocSample, error)
	RecentSocForAccount(ctx context.Context, akey string, since int64) ([]models.SocSample, error)
}

// PredictionCache stores the latest prediction per account.
type PredictionCache interface {
	Save(ctx context.Context, prediction models.Prediction) error
}

// ForecastService computes completion forecasts from recent soc trends. It
// is read-only against the telemetry store and side-effect-free apart from
// the cache, so concurrent callers need no coordination.
type ForecastService struct {
	source  SocSource
	cache   PredictionCache
	logger  *zap.Logger
	window  time.Duration
	workers int
	now     func() time.Time
}

// NewForecastService builds the service. window bounds sample recency,
// workers bounds sweep parallelism.
func NewForecastService(source SocSource, cache PredictionCache, window time.Duration, workers int, logger *zap.Logger) *ForecastService {
	if window <= 0 {
		window = 24 * time.Hour
	}
	if workers <= 0 {
		workers = 4
	}
	return &ForecastService{
		source:  source,
		cache:   cache,
		logger:  logger,
		window:  window,
		workers: workers,
		now:     time.Now,
	}
}

// PredictAccount computes a fresh prediction for one account. It returns
// nil when the account has no usable trend inside the window.
func (s *ForecastService) PredictAccount(ctx context.Context, akey string) (*models.Prediction, error) {
	now := s.now()
	samples, err := s.source.RecentSocForAccount(ctx, akey, now.Add(-s.window).Unix())
	if err != nil {
		return nil, err
	}

	prediction, ok := Forecast(FilterTrend(samples))
	if !ok {
		return nil, nil
	}
	prediction.AKey = akey
	prediction.GeneratedAt = now.Unix()
	return &prediction, nil
}

// Sweep forecasts every account with recent soc data and caches each
// result. Accounts fail independently: a cache error is logged and the
// sweep moves on. Returns the number of predictions cached.
func (s *ForecastService) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	byAccount, err := s.source.RecentSoc(ctx, now.Add(-s.window).Unix())
	if err != nil {
		return 0, err
	}

	var cached atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for akey, samples := range byAccount {
		akey, samples := akey, samples
		group.Go(func() error {
			prediction, ok := Forecast(FilterTrend(samples))
			if !ok {
				return nil
			}
			prediction.AKey = akey
			prediction.GeneratedAt = now.Unix()
			if err := s.cache.Save(groupCtx, prediction); err != nil {
				s.logger.Warn("failed to cache prediction",
					zap.String("akey", akey), zap.Error(err))
				return nil
			}
			cached.Add(1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return int(cached.Load()), err
	}

	s.logger.Info("forecast sweep finished",
		zap.Int("accounts", len(byAccount)),
		zap.Int64("predictions_cached", cached.Load()),
		zap.Duration("duration", s.now().Sub(now)),
	)
	return int(cached.Load()), nil
}
