// internal/cache/redis.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// LanguageCache keeps user language codes in Redis.
type LanguageCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewLanguageCache(client redis.Cmdable, ttl time.Duration) *LanguageCache {
	return &LanguageCache{client: client, ttl: ttl}
}

func languageKey(userID int64) string {
	return fmt.Sprintf("teleswap:lang:%d", userID)
}

func (c *LanguageCache) Get(ctx context.Context, userID int64) (string, bool, error) {
	lang, err := c.client.Get(ctx, languageKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read language of user %d: %w", userID, err)
	}
	return lang, true, nil
}

func (c *LanguageCache) Set(ctx context.Context, userID int64, language string) error {
	if err := c.client.Set(ctx, languageKey(userID), language, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache language of user %d: %w", userID, err)
	}
	return nil
}
