package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultGuardKeyPrefix = "settlement:submit:"

// releaseScript deletes the key only while it still holds the releasing
// submission's token. A lock that expired and was taken again, by this
// process or another, is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSubmissionGuard implements settlement.SubmissionGuard using Redis.
// It is shared by every instance of the service.
type RedisSubmissionGuard struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSubmissionGuard connects to Redis and creates a guard
func NewRedisSubmissionGuard(cfg RedisConfig) (*RedisSubmissionGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSubmissionGuardWithClient(client, ""), nil
}

// NewRedisSubmissionGuardWithClient creates a guard over an existing client
func NewRedisSubmissionGuardWithClient(client *redis.Client, keyPrefix string) *RedisSubmissionGuard {
	if keyPrefix == "" {
		keyPrefix = defaultGuardKeyPrefix
	}
	return &RedisSubmissionGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the key with SET NX and a TTL in one atomic call, storing a
// fresh token. It returns false when another submission holds the key.
func (g *RedisSubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire submission guard: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the key if it still holds token
func (g *RedisSubmissionGuard) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.keyPrefix + key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release submission guard: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers
func (g *RedisSubmissionGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (g *RedisSubmissionGuard) Close() error {
	return g.client.Close()
}

var _ settlement.SubmissionGuard = (*RedisSubmissionGuard)(nil)
