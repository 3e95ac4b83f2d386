package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"travelagency/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SessionTTL bounds how long an untouched wizard draft survives.
const SessionTTL = 30 * time.Minute

// SessionStore persists wizard drafts between requests.
type SessionStore interface {
	Save(ctx context.Context, w *Wizard) error
	Load(ctx context.Context, id string) (*Wizard, error)
	Delete(ctx context.Context, id string) error
	// Claim removes and returns a draft in one step. Only one caller can claim a given draft.
	Claim(ctx context.Context, id string) (*Wizard, error)
}

// RedisSessionStore keeps drafts as JSON under booking:wizard:<id>.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "booking:wizard:" + id
}

func (s *RedisSessionStore) Save(ctx context.Context, w *Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(w.ID), data, s.ttl).Err(); err != nil {
		utils.GetLogger().Error("Failed to save booking session", zap.String("sessionID", w.ID), zap.Error(err))
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Wizard, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var w Wizard
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &w, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func (s *RedisSessionStore) Claim(ctx context.Context, id string) (*Wizard, error) {
	data, err := s.client.GetDel(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim booking session: %w", err)
	}
	var w Wizard
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &w, nil
}

// MemorySessionStore is used when Redis is not configured and in tests.
// Drafts are stored as JSON so loaded wizards never alias stored ones.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &MemorySessionStore{entries: map[string]memoryEntry{}, ttl: ttl, now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, w *Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[w.ID] = memoryEntry{data: data, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (*Wizard, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && s.now().After(e.expires) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionExpired
	}
	var w Wizard
	if err := json.Unmarshal(e.data, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &w, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemorySessionStore) Claim(_ context.Context, id string) (*Wizard, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if !ok || s.now().After(e.expires) {
		return nil, ErrSessionExpired
	}
	var w Wizard
	if err := json.Unmarshal(e.data, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &w, nil
}
