// Package state keeps lightweight run bookkeeping in Redis: the summary
// of the last seed run, so operators can inspect what the latest
// regeneration did without trawling logs.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"shop/admin/internal/seed"
)

const lastRunKey = "shop:seed:lastrun"

// RunStore records and serves seed run summaries.
type RunStore interface {
	RecordRun(ctx context.Context, run seed.RunSummary) error
	LastRun(ctx context.Context) (*seed.RunSummary, error)
}

type redisRunStore struct {
	redisClient *redis.Client
}

func NewRedisRunStore(redisClient *redis.Client) RunStore {
	return &redisRunStore{
		redisClient: redisClient,
	}
}

func (s *redisRunStore) RecordRun(ctx context.Context, run seed.RunSummary) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := s.redisClient.Set(ctx, lastRunKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to record run summary: %w", err)
	}
	return nil
}

// LastRun returns the last recorded summary, or nil when no run has
// happened yet.
func (s *redisRunStore) LastRun(ctx context.Context) (*seed.RunSummary, error) {
	data, err := s.redisClient.Get(ctx, lastRunKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load last run summary: %w", err)
	}

	var run seed.RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse last run summary: %w", err)
	}
	return &run, nil
}
