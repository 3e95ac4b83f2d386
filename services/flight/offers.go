package flight

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"travelagency/models"
	"travelagency/utils"

	"github.com/go-redis/redis/v8"
)

// OfferTTL bounds how long a searched fare can be ticketed.
const OfferTTL = 30 * time.Minute

// OfferCache keeps the offers a search returned so ticketing prices come from
// the provider rather than the client.
type OfferCache interface {
	Put(ctx context.Context, offers []models.FlightOffer) error
	Get(ctx context.Context, id string) (*models.FlightOffer, error)
}

func offerNotFound(id string) error {
	return &utils.NotFoundError{Entity: "flight offer", ID: id}
}

// RedisOfferCache stores offers as JSON under flight:offer:<id>.
type RedisOfferCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOfferCache(client *redis.Client, ttl time.Duration) *RedisOfferCache {
	if ttl <= 0 {
		ttl = OfferTTL
	}
	return &RedisOfferCache{client: client, ttl: ttl}
}

func offerKey(id string) string {
	return "flight:offer:" + id
}

func (c *RedisOfferCache) Put(ctx context.Context, offers []models.FlightOffer) error {
	if len(offers) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, o := range offers {
		data, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("failed to marshal flight offer: %w", err)
		}
		pipe.Set(ctx, offerKey(o.ID), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store flight offers: %w", err)
	}
	return nil
}

func (c *RedisOfferCache) Get(ctx context.Context, id string) (*models.FlightOffer, error) {
	data, err := c.client.Get(ctx, offerKey(id)).Result()
	if err == redis.Nil {
		return nil, offerNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load flight offer: %w", err)
	}
	var o models.FlightOffer
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flight offer: %w", err)
	}
	return &o, nil
}

// MemoryOfferCache is used when Redis is not configured and in tests.
type MemoryOfferCache struct {
	mu     sync.Mutex
	offers map[string]memoryOffer
	ttl    time.Duration
	now    func() time.Time
}

type memoryOffer struct {
	offer   models.FlightOffer
	expires time.Time
}

func NewMemoryOfferCache(ttl time.Duration) *MemoryOfferCache {
	if ttl <= 0 {
		ttl = OfferTTL
	}
	return &MemoryOfferCache{offers: map[string]memoryOffer{}, ttl: ttl, now: time.Now}
}

func (c *MemoryOfferCache) Put(_ context.Context, offers []models.FlightOffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	expires := c.now().Add(c.ttl)
	for _, o := range offers {
		o.Segments = append([]models.FlightSegment(nil), o.Segments...)
		c.offers[o.ID] = memoryOffer{offer: o, expires: expires}
	}
	return nil
}

func (c *MemoryOfferCache) Get(_ context.Context, id string) (*models.FlightOffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.offers[id]
	if !ok || c.now().After(e.expires) {
		delete(c.offers, id)
		return nil, offerNotFound(id)
	}
	o := e.offer
	o.Segments = append([]models.FlightSegment(nil), o.Segments...)
	return &o, nil
}
