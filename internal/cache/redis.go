// Package cache backs the job list cache and the login attempt counters with Redis.
// A Redis that is nil or unreachable at startup turns every call into a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

// NewRedis pings rdb and falls back to bypass mode when it does not answer.
func NewRedis(ctx context.Context, rdb *redis.Client) *Redis {
	if rdb == nil {
		return &Redis{}
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, bypassing cache", "error", err)
		return &Redis{}
	}
	return &Redis{client: rdb}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) warnOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		slog.Warn("redis call failed", "error", err)
	}
}

// GetJSON decodes the value at key into out. A missing key is (false, nil).
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnOnce(err)
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnOnce(err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnOnce(err)
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Attempts returns the current counter at key, zero when absent.
func (r *Redis) Attempts(ctx context.Context, key string) (int64, error) {
	if !r.Available() {
		return 0, nil
	}
	n, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		r.warnOnce(err)
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return n, nil
}

// RecordAttempt increments the counter at key and restarts its expiry window.
func (r *Redis) RecordAttempt(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !r.Available() {
		return 0, nil
	}
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.warnOnce(err)
		return 0, fmt.Errorf("increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

func (r *Redis) ResetAttempts(ctx context.Context, key string) error {
	return r.Delete(ctx, key)
}
