package service

import (
	"math"

	"voltlog/services/forecast-service/internal/models"
)

// Forecast linearly extrapolates a completion time from a filtered trend
// run. It returns false when the run is empty, meaning there is no usable
// trend and no prediction should be reported. A run without a detectable
// rate, or one whose extrapolation is not a finite timestamp, degrades to
// the oldest accepted sample's timestamp with LowConfidence set; the
// forecaster never fails on degenerate input.
func Forecast(run TrendRun) (models.Prediction, bool) {
	if len(run.Samples) == 0 {
		return models.Prediction{}, false
	}

	first := run.Samples[0]
	last := run.Samples[len(run.Samples)-1]

	prediction := models.Prediction{
		AKey:            first.AKey,
		SampleCount:     len(run.Samples),
		IsCharging:      run.IsCharging,
		ValueDifference: first.Value - last.Value,
		TimeDifference:  first.Timestamp - last.Timestamp,
	}
	if run.IsCharging {
		prediction.PercentageRemaining = 100 - first.Value
	} else {
		prediction.PercentageRemaining = first.Value
	}

	if prediction.ValueDifference == 0 {
		prediction.PredictedCompletion = last.Timestamp
		prediction.LowConfidence = true
		return prediction, true
	}

	rate := float64(prediction.TimeDifference) / prediction.ValueDifference
	predicted := float64(first.Timestamp) + rate*prediction.PercentageRemaining
	// The int64 bounds count as overflow: float64(MaxInt64) rounds up to
	// 2^63, where the conversion below is implementation-defined.
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) || predicted >= math.MaxInt64 || predicted <= math.MinInt64 {
		prediction.PredictedCompletion = last.Timestamp
		prediction.LowConfidence = true
		return prediction, true
	}

	prediction.PredictedCompletion = int64(predicted)
	return prediction, true
}
