package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flexiflight/internal/models"
)

// Cache stores raw provider search documents keyed by the parameter record
// that produced them. A (nil, false) Get is a miss; cache failures are the
// caller's to log, never to fail a search on.
type Cache interface {
	Get(ctx context.Context, params models.SearchParams) (json.RawMessage, bool)
	Set(ctx context.Context, params models.SearchParams, doc json.RawMessage) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      15 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, params models.SearchParams) (json.RawMessage, bool) {
	data, err := c.client.Get(ctx, Key(params)).Bytes()
	if err != nil {
		return nil, false
	}

	// A corrupt entry counts as a miss; the next Set overwrites it.
	if !json.Valid(data) {
		return nil, false
	}

	return json.RawMessage(data), true
}

func (c *RedisCache) Set(ctx context.Context, params models.SearchParams, doc json.RawMessage) error {
	return c.client.Set(ctx, Key(params), []byte(doc), c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, params models.SearchParams) (json.RawMessage, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, params models.SearchParams, doc json.RawMessage) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key derives the deterministic cache key for a parameter record: SHA-256
// over the record's flat payload, which excludes unset fields and (being a
// Go map marshal) serializes keys in sorted order. Records that differ only
// in null-versus-absent fields therefore share a key.
func Key(params models.SearchParams) string {
	// Marshalling map[string]string cannot fail.
	data, _ := json.Marshal(params.Payload())
	hash := sha256.Sum256(data)
	return "flight_search:" + hex.EncodeToString(hash[:])
}
