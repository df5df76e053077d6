package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"powerrelay/backend/services/relay-service/internal/service"
)

// StatusStore publishes the latest cycle status so the unattended relay can be monitored.
type StatusStore struct {
	client  *redis.Client
	orgCode string
	ttl     time.Duration
}

// NewStatusStore returns redis-backed store.
func NewStatusStore(client *redis.Client, orgCode string, ttl time.Duration) *StatusStore {
	return &StatusStore{client: client, orgCode: orgCode, ttl: ttl}
}

func (s *StatusStore) key() string {
	return fmt.Sprintf("relay:status:%s", s.orgCode)
}

// Save overwrites the published status.
func (s *StatusStore) Save(ctx context.Context, status service.CycleStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(), data, s.ttl).Err()
}

// Get returns the published status.
func (s *StatusStore) Get(ctx context.Context) (*service.CycleStatus, error) {
	result, err := s.client.Get(ctx, s.key()).Result()
	if err != nil {
		return nil, err
	}
	var status service.CycleStatus
	if err := json.Unmarshal([]byte(result), &status); err != nil {
		return nil, err
	}
	return &status, nil
}
