package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltlog/services/forecast-service/internal/models"
)

func TestForecastCharging(t *testing.T) {
	run := FilterTrend([]models.SocSample{
		soc(100, 40),
		soc(80, 30),
	})

	prediction, ok := Forecast(run)
	require.True(t, ok)
	assert.True(t, prediction.IsCharging)
	assert.Equal(t, 2, prediction.SampleCount)
	assert.Equal(t, 10.0, prediction.ValueDifference)
	assert.Equal(t, int64(20), prediction.TimeDifference)
	assert.Equal(t, 60.0, prediction.PercentageRemaining)
	// 2 seconds per percent, 60 percent to go, anchored at t=100.
	assert.Equal(t, int64(220), prediction.PredictedCompletion)
	assert.False(t, prediction.LowConfidence)
}

func TestForecastThreeSampleTrendDifferences(t *testing.T) {
	run := FilterTrend([]models.SocSample{
		soc(100, 40),
		soc(90, 35),
		soc(80, 30),
	})

	prediction, ok := Forecast(run)
	require.True(t, ok)
	assert.Equal(t, 3, prediction.SampleCount)
	assert.Equal(t, 10.0, prediction.ValueDifference)
	assert.Equal(t, int64(20), prediction.TimeDifference)
}

func TestForecastFlatRunFallsBack(t *testing.T) {
	run := FilterTrend([]models.SocSample{
		soc(100, 50),
		soc(90, 50),
		soc(80, 50),
	})

	prediction, ok := Forecast(run)
	require.True(t, ok)
	assert.Zero(t, prediction.ValueDifference)
	// No detectable rate: the oldest accepted timestamp stands in as the
	// degenerate estimate.
	assert.Equal(t, int64(80), prediction.PredictedCompletion)
	assert.True(t, prediction.LowConfidence)
}

func TestForecastOverflowFallsBack(t *testing.T) {
	// rate = 2^60/5 seconds per percent, 40 percent to go, anchored at 0:
	// the extrapolation lands exactly on 2^63, one past int64 range.
	run := TrendRun{
		IsCharging: true,
		Samples: []models.SocSample{
			{Value: 60, Timestamp: 0},
			{Value: 55, Timestamp: -(1 << 60)},
		},
	}

	prediction, ok := Forecast(run)
	require.True(t, ok)
	assert.True(t, prediction.LowConfidence)
	assert.Equal(t, int64(-(1 << 60)), prediction.PredictedCompletion)
}

func TestForecastEmptyRunDeclines(t *testing.T) {
	_, ok := Forecast(TrendRun{})
	assert.False(t, ok)
}

func TestForecastDischarging(t *testing.T) {
	run := FilterTrend([]models.SocSample{
		soc(100, 30),
		soc(80, 40),
	})

	prediction, ok := Forecast(run)
	require.True(t, ok)
	assert.False(t, prediction.IsCharging)
	assert.Equal(t, -10.0, prediction.ValueDifference)
	assert.Equal(t, int64(20), prediction.TimeDifference)
	assert.Equal(t, 30.0, prediction.PercentageRemaining)
}
