package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis is a Store backed by a shared redis instance. Entries expire
// server-side; redis being unreachable degrades to cache misses rather
// than surfacing errors to callers.
type Redis struct {
	client *redis.Client
	log    *logrus.Entry
}

func NewRedis(logger *logrus.Logger, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{
		client: client,
		log:    logger.WithField("component", "cache"),
	}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithFields(logrus.Fields{
				"key":   key,
				"error": err,
			}).Warn("Cache read failed")
		}
		return nil, false
	}
	return value, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err,
		}).Warn("Cache write failed")
	}
}
