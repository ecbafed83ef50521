package models

// SocSample is one state-of-charge observation for one account.
type SocSample struct {
	AKey      string  `db:"akey" json:"akey"`
	Value     float64 `db:"soc" json:"value"`
	Timestamp int64   `db:"timestamp" json:"timestamp"`
}

// Prediction is a completion forecast computed from recent consistent trend
// data. It is ephemeral; the latest one per account is cached for the
// notification layer, never persisted.
type Prediction struct {
	AKey                string  `json:"akey"`
	SampleCount         int     `json:"sample_count"`
	IsCharging          bool    `json:"is_charging"`
	ValueDifference     float64 `json:"value_difference"`
	TimeDifference      int64   `json:"time_difference"`
	PercentageRemaining float64 `json:"percentage_remaining"`
	// PredictedCompletion is a unix timestamp. When the trend admits no
	// finite extrapolation it degrades to the oldest accepted sample's
	// timestamp and LowConfidence is set.
	PredictedCompletion int64 `json:"predicted_completion"`
	LowConfidence       bool  `json:"low_confidence"`
	GeneratedAt         int64 `json:"generated_at"`
}
