package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"tripplanner/internal/models/db_models"
)

const sessionPlanKeyPrefix = "trip:session:" // trip:session:{session_id}

var ErrSessionPlanNotFound = errors.New("session plan not found")

// SessionPlanStore keeps the current plan of each session.
type SessionPlanStore interface {
	Save(ctx context.Context, sessionID string, plan *db_models.SessionPlan) error
	Get(ctx context.Context, sessionID string) (*db_models.SessionPlan, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisSessionPlanStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionPlanStore(client *redis.Client, ttl time.Duration) *RedisSessionPlanStore {
	return &RedisSessionPlanStore{client: client, ttl: ttl}
}

func (s *RedisSessionPlanStore) Save(ctx context.Context, sessionID string, plan *db_models.SessionPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal session plan: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session plan: %w", err)
	}
	return nil
}

func (s *RedisSessionPlanStore) Get(ctx context.Context, sessionID string) (*db_models.SessionPlan, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session plan: %w", err)
	}

	var plan db_models.SessionPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session plan: %w", err)
	}
	return &plan, nil
}

func (s *RedisSessionPlanStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session plan: %w", err)
	}
	return nil
}

func (s *RedisSessionPlanStore) key(sessionID string) string {
	return sessionPlanKeyPrefix + sessionID
}

// MemorySessionPlanStore is the single-process fallback used without Redis.
type MemorySessionPlanStore struct {
	cache *gocache.Cache
}

func NewMemorySessionPlanStore(ttl time.Duration) *MemorySessionPlanStore {
	return &MemorySessionPlanStore{cache: gocache.New(ttl, 10*time.Minute)}
}

func (s *MemorySessionPlanStore) Save(ctx context.Context, sessionID string, plan *db_models.SessionPlan) error {
	stored := *plan
	stored.Destinations = append([]string(nil), plan.Destinations...)
	stored.Interests = append([]string(nil), plan.Interests...)
	s.cache.SetDefault(sessionID, &stored)
	return nil
}

func (s *MemorySessionPlanStore) Get(ctx context.Context, sessionID string) (*db_models.SessionPlan, error) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, ErrSessionPlanNotFound
	}
	plan := *v.(*db_models.SessionPlan)
	return &plan, nil
}

func (s *MemorySessionPlanStore) Delete(ctx context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}
