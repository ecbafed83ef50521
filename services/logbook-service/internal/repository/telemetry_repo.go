package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"voltlog/services/logbook-service/internal/models"
)

// TelemetryRepository streams raw vehicle samples for the session pipeline.
type TelemetryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTelemetryRepository returns repository.
func NewTelemetryRepository(db *sql.DB, logger *zap.Logger) *TelemetryRepository {
	return &TelemetryRepository{db: db, logger: logger}
}

// StreamQualifying streams, ordered ascending by timestamp, every sample
// newer than its account's resume point (the max end of that account's
// persisted log entries, or all samples when none exist). Only rows carrying
// a charging flag or a gps speed above driveThreshold qualify; anything else
// is noise for this pipeline and is dropped in the query. Rows are delivered
// one at a time through fn over a forward-only cursor, so memory stays
// bounded regardless of backlog size. A row that fails to scan is logged and
// skipped so a single bad row cannot poison the run.
func (r *TelemetryRepository) StreamQualifying(ctx context.Context, driveThreshold float64, fn func(models.TelemetrySample) error) error {
	const query = `
		SELECT s.akey, s.timestamp, s.charging, s.gps_speed, s.soc
		FROM telemetry s
		LEFT JOIN (
			SELECT akey, MAX(end_time) AS resume_after
			FROM logs
			GROUP BY akey
		) l USING (akey)
		WHERE (s.charging IS NOT NULL OR s.gps_speed > $1)
		  AND (l.resume_after IS NULL OR s.timestamp > l.resume_after)
		ORDER BY s.timestamp
	`
	rows, err := r.db.QueryContext(ctx, query, driveThreshold)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sample   models.TelemetrySample
			charging sql.NullBool
			speed    sql.NullFloat64
			soc      sql.NullFloat64
		)
		if err := rows.Scan(&sample.AKey, &sample.Timestamp, &charging, &speed, &soc); err != nil {
			r.logger.Warn("skipping unreadable telemetry row", zap.Error(err))
			continue
		}
		if charging.Valid {
			sample.Charging = &charging.Bool
		}
		if speed.Valid {
			sample.GPSSpeed = &speed.Float64
		}
		if soc.Valid {
			sample.SOC = &soc.Float64
		}
		if err := fn(sample); err != nil {
			return err
		}
	}
	return rows.Err()
}
