package handlers

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"voltlog/services/forecast-service/internal/models"
	redisstore "voltlog/services/forecast-service/internal/redis"
	"voltlog/services/forecast-service/internal/service"
)

// PredictionHandler serves the latest completion forecast for an account.
type PredictionHandler struct {
	svc    *service.ForecastService
	cache  *redisstore.Store
	logger *zap.Logger
}

// NewPredictionHandler returns handler.
func NewPredictionHandler(svc *service.ForecastService, cache *redisstore.Store, logger *zap.Logger) *PredictionHandler {
	return &PredictionHandler{
		svc:    svc,
		cache:  cache,
		logger: logger,
	}
}

// ServeHTTP handles GET /predictions?akey=. The cached sweep result is
// served when present; a cache miss computes a fresh forecast.
func (h *PredictionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	akey := r.URL.Query().Get("akey")
	if akey == "" {
		writeError(w, http.StatusBadRequest, "akey is required")
		return
	}

	var prediction *models.Prediction
	if h.cache != nil {
		cached, err := h.cache.Get(r.Context(), akey)
		if err != nil && !errors.Is(err, redis.Nil) {
			h.logger.Warn("prediction cache read failed", zap.String("akey", akey), zap.Error(err))
		}
		prediction = cached
	}

	if prediction == nil {
		fresh, err := h.svc.PredictAccount(r.Context(), akey)
		if err != nil {
			h.logger.Error("failed to compute prediction", zap.String("akey", akey), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to compute prediction")
			return
		}
		prediction = fresh
	}

	if prediction == nil {
		writeError(w, http.StatusNotFound, "no usable trend for account")
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}
