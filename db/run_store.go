// Package db persists generation run summaries in Redis so the web UI can
// show previous runs. The store is optional: the generation pipeline itself
// never touches it.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"exampass-server-go/passgen"
)

const (
	runsKey       = "runs"     // List: run IDs, most recent first
	runInfoPrefix = "run:"     // String prefix: run:{id} -> summary JSON
	maxRunHistory = 20
)

// RunStore handles run-summary persistence in Redis.
type RunStore struct {
	Client *redis.Client
	Ctx    context.Context // Base context
}

// NewRunStore creates a RunStore around an existing client.
func NewRunStore(client *redis.Client) *RunStore {
	return &RunStore{
		Client: client,
		Ctx:    context.Background(),
	}
}

func runInfoKey(id string) string {
	return runInfoPrefix + id
}

// SaveRun records a run summary and trims the history to its cap.
func (s *RunStore) SaveRun(summary *passgen.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	id := summary.GeneratedAt.UTC().Format("20060102T150405.000000000")
	pipe := s.Client.Pipeline()
	pipe.LPush(s.Ctx, runsKey, id)
	pipe.LTrim(s.Ctx, runsKey, 0, maxRunHistory-1)
	pipe.Set(s.Ctx, runInfoKey(id), data, 0)

	if _, err := pipe.Exec(s.Ctx); err != nil {
		log.Printf("Error saving run %s: %v", id, err)
		return fmt.Errorf("failed to save run to Redis: %w", err)
	}
	return nil
}

// RecentRuns returns up to n of the most recent run summaries, newest
// first. A missing history is an empty result, not an error.
func (s *RunStore) RecentRuns(n int) ([]passgen.Summary, error) {
	ids, err := s.Client.LRange(s.Ctx, runsKey, 0, int64(n-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []passgen.Summary{}, nil
		}
		return nil, fmt.Errorf("failed to list runs from Redis: %w", err)
	}

	runs := make([]passgen.Summary, 0, len(ids))
	for _, id := range ids {
		data, err := s.Client.Get(s.Ctx, runInfoKey(id)).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Printf("Error fetching run %s: %v", id, err)
			}
			continue
		}
		var summary passgen.Summary
		if err := json.Unmarshal([]byte(data), &summary); err != nil {
			log.Printf("Error decoding run %s: %v", id, err)
			continue
		}
		runs = append(runs, summary)
	}
	return runs, nil
}

// InitializeRedisClient connects to Redis at addr and verifies the
// connection. Returns nil (run history disabled) when addr is empty or the
// server is unreachable; the rest of the application works without it.
func InitializeRedisClient(addr string) *redis.Client {
	if addr == "" {
		log.Println("REDIS_ADDR not set, run history disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Could not connect to Redis at %s, run history disabled: %v", addr, err)
		return nil
	}

	log.Printf("Connected to Redis at %s", addr)
	return rdb
}
