package repository

import (
	"context"
	"database/sql"

	"voltlog/services/forecast-service/internal/models"
)

// SocRepository reads recent state-of-charge samples.
type SocRepository struct {
	db *sql.DB
}

// NewSocRepository returns repository.
func NewSocRepository(db *sql.DB) *SocRepository {
	return &SocRepository{db: db}
}

// RecentSoc returns every account's soc samples since the given timestamp,
// newest first per account.
func (r *SocRepository) RecentSoc(ctx context.Context, since int64) (map[string][]models.SocSample, error) {
	const query = `
		SELECT akey, soc, timestamp
		FROM telemetry
		WHERE soc IS NOT NULL AND timestamp >= $1
		ORDER BY akey, timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byAccount := make(map[string][]models.SocSample)
	for rows.Next() {
		var sample models.SocSample
		if err := rows.Scan(&sample.AKey, &sample.Value, &sample.Timestamp); err != nil {
			return nil, err
		}
		byAccount[sample.AKey] = append(byAccount[sample.AKey], sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return byAccount, nil
}

// RecentSocForAccount returns one account's soc samples since the given
// timestamp, newest first.
func (r *SocRepository) RecentSocForAccount(ctx context.Context, akey string, since int64) ([]models.SocSample, error) {
	const query = `
		SELECT akey, soc, timestamp
		FROM telemetry
		WHERE akey = $1 AND soc IS NOT NULL AND timestamp >= $2
		ORDER BY timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, akey, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.SocSample
	for rows.Next() {
		var sample models.SocSample
		if err := rows.Scan(&sample.AKey, &sample.Value, &sample.Timestamp); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}
