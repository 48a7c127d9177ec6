package repository

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	// Allow reports whether another request under key fits inside the window.
	// Fails open on backend errors: rate limiting is protection, not a
	// correctness dependency.
	Allow(ctx context.Context, key string, requests int, window time.Duration) (bool, error)
}

type rateLimitRepository struct {
	client *redis.Client
}

func NewRateLimitRepository(client *redis.Client) RateLimitRepository {
	return &rateLimitRepository{client: client}
}

func (r *rateLimitRepository) Allow(ctx context.Context, key string, requests int, window time.Duration) (bool, error) {
	// Hash the key for privacy (it may contain an email or IP)
	hasher := sha256.New()
	hasher.Write([]byte(key))
	redisKey := fmt.Sprintf("ratelimit:%x", hasher.Sum(nil))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, nil
	}

	return incr.Val() <= int64(requests), nil
}
