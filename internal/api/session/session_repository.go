package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// Repository persists session contexts. Get reports found=false for unknown ids.
type Repository interface {
	Get(ctx context.Context, id string) (*types.SessionContext, bool, error)
	Save(ctx context.Context, s *types.SessionContext) error
	Delete(ctx context.Context, id string) error
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*RedisRepository)(nil)
)

// MemoryRepository keeps sessions in process memory. Stored values are copies.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*types.SessionContext
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]*types.SessionContext)}
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*types.SessionContext, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (r *MemoryRepository) Save(_ context.Context, s *types.SessionContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// RedisRepository stores each session as one JSON document under "session:{id}".
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository pings the server before returning.
func NewRedisRepository(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisRepository{client: client, ttl: ttl}, nil
}

func key(id string) string {
	return "session:" + id
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*types.SessionContext, bool, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	var s types.SessionContext
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, true, nil
}

func (r *RedisRepository) Save(ctx context.Context, s *types.SessionContext) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
