package ai

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"travelagency/models"

	"github.com/go-redis/redis/v8"
)

const aiContextPrefix = "ai:ctx:"

// maxHistory bounds the turns kept per user.
const maxHistory = 12

// ContextStore keeps chat history per user.
type ContextStore interface {
	Get(ctx context.Context, userID string) (*models.AIContext, error)
	Set(ctx context.Context, userID string, aiCtx *models.AIContext) error
	Clear(ctx context.Context, userID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, userID string) (*models.AIContext, error) {
	data, err := s.client.Get(ctx, aiContextPrefix+userID).Result()
	if err == redis.Nil {
		return &models.AIContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var aiCtx models.AIContext
	if err := json.Unmarshal([]byte(data), &aiCtx); err != nil {
		return nil, err
	}
	return &aiCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, userID string, aiCtx *models.AIContext) error {
	trim(aiCtx)
	b, err := json.Marshal(aiCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, aiContextPrefix+userID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, aiContextPrefix+userID).Err()
}

// MemoryContextStore is the in-process store used without Redis.
type MemoryContextStore struct {
	mu    sync.Mutex
	items map[string]models.AIContext
}

func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{items: map[string]models.AIContext{}}
}

func (s *MemoryContextStore) Get(_ context.Context, userID string) (*models.AIContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.items[userID]
	c.History = append([]models.ChatTurn(nil), c.History...)
	return &c, nil
}

func (s *MemoryContextStore) Set(_ context.Context, userID string, aiCtx *models.AIContext) error {
	trim(aiCtx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = models.AIContext{History: append([]models.ChatTurn(nil), aiCtx.History...)}
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

func trim(c *models.AIContext) {
	if n := len(c.History); n > maxHistory {
		c.History = c.History[n-maxHistory:]
	}
}
