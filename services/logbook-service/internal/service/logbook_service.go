package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voltlog/services/logbook-service/internal/models"
)

// SampleSource streams qualifying samples newer than each account's resume
// point, ordered ascending by timestamp.
type SampleSource interface {
	StreamQualifying(ctx context.Context, driveThreshold float64, fn func(models.TelemetrySample) error) error
}

// LogSink persists a run's finalized sessions atomically.
type LogSink interface {
	InsertBatch(ctx context.Context, entries []models.LogEntry) error
}

// RunStats reports what one pipeline run did.
type RunStats struct {
	Read           int
	Written        int
	TimeToFirstRow time.Duration
	Duration       time.Duration
}

// LogbookService runs the session pipeline: stream samples, fold them into
// per-account sessions, flush stale open sessions, write the batch. Each run
// starts from the persisted resume points, so a failed or killed run simply
// redoes its work on the next schedule.
type LogbookService struct {
	source     SampleSource
	sink       LogSink
	thresholds Thresholds
	logger     *zap.Logger
	now        func() time.Time
}

// NewLogbookService builds the pipeline service.
func NewLogbookService(source SampleSource, sink LogSink, thresholds Thresholds, logger *zap.Logger) *LogbookService {
	return &LogbookService{
		source:     source,
		sink:       sink,
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one pipeline pass over all accounts.
func (s *LogbookService) Run(ctx context.Context) (RunStats, error) {
	started := s.now()
	tracker := NewTracker(s.thresholds)

	var stats RunStats
	var firstRow time.Time
	err := s.source.StreamQualifying(ctx, s.thresholds.DriveSpeed, func(sample models.TelemetrySample) error {
		if stats.Read == 0 {
			firstRow = s.now()
		}
		stats.Read++
		tracker.Observe(sample)
		return nil
	})
	if err != nil {
		return stats, err
	}
	if firstRow.IsZero() {
		// No rows at all: report the stream drain time so empty-run stats
		// still say how long the query took.
		firstRow = s.now()
	}
	stats.TimeToFirstRow = firstRow.Sub(started)

	tracker.FlushStale(s.now().Unix())

	entries := tracker.Entries()
	if len(entries) > 0 {
		if err := s.sink.InsertBatch(ctx, entries); err != nil {
			return stats, err
		}
	}
	stats.Written = len(entries)
	stats.Duration = s.now().Sub(started)

	s.logger.Info("logbook run finished",
		zap.Int("rows_read", stats.Read),
		zap.Int("entries_written", stats.Written),
		zap.Duration("time_to_first_row", stats.TimeToFirstRow),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}
