package service

import (
	"sort"

	"voltlog/services/forecast-service/internal/models"
)

// TrendRun is the clean trailing run of soc samples the forecaster may
// extrapolate from, newest first.
type TrendRun struct {
	Samples    []models.SocSample
	IsCharging bool
}

// FilterTrend extracts the maximal trailing, monotone, direction-consistent
// run anchored at the newest sample. Direction comes from the two most
// recent distinct values; a single distinct value counts as not charging.
// Isolated noise or a direction reversal truncates the run, so only
// locally-consistent recent evidence survives.
func FilterTrend(samples []models.SocSample) TrendRun {
	if len(samples) == 0 {
		return TrendRun{}
	}

	ordered := make([]models.SocSample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp > ordered[j].Timestamp
	})

	start := ordered[0].Value
	var isCharging bool
	for _, s := range ordered[1:] {
		if s.Value != start {
			isCharging = start > s.Value
			break
		}
	}

	// Walking backwards in time: while charging, values must not increase;
	// while discharging, they must not decrease. The first violation ends
	// the run.
	boundary := start
	var run []models.SocSample
	for _, s := range ordered {
		if isCharging {
			if s.Value > boundary {
				break
			}
		} else if s.Value < boundary {
			break
		}
		boundary = s.Value
		run = append(run, s)
	}

	return TrendRun{Samples: run, IsCharging: isCharging}
}
