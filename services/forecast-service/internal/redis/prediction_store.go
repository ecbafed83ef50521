package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voltlog/services/forecast-service/internal/models"
)

// Store caches the latest prediction per account so the notification layer
// can read it without recomputing.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(akey string) string {
	return fmt.Sprintf("forecast:latest:%s", akey)
}

// Save caches the prediction for its account.
func (s *Store) Save(ctx context.Context, prediction models.Prediction) error {
	data, err := json.Marshal(prediction)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(prediction.AKey), data, s.ttl).Err()
}

// Get returns the cached prediction, redis.Nil wrapped when absent.
func (s *Store) Get(ctx context.Context, akey string) (*models.Prediction, error) {
	result, err := s.client.Get(ctx, s.key(akey)).Result()
	if err != nil {
		return nil, err
	}
	var prediction models.Prediction
	if err := json.Unmarshal([]byte(result), &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}
