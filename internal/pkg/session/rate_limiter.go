// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts = int64(5)
	loginWindow      = 15 * time.Minute
)

type RateLimiter struct {
	client redis.Cmdable
}

func NewRateLimiter(client redis.Cmdable) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt counts an attempt and reports whether it is allowed,
// together with the attempts left in the current window.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, username string) (bool, int64, error) {
	key := loginKey(ip, username)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	if err := r.ensureWindow(ctx, key, count); err != nil {
		return false, 0, err
	}

	remaining := maxLoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxLoginAttempts, remaining, nil
}

// ensureWindow gives the counter its expiry. The first attempt opens the
// window and later attempts repair a counter left without one.
func (r *RateLimiter) ensureWindow(ctx context.Context, key string, count int64) error {
	if count > 1 {
		ttl, err := r.client.TTL(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to read login window: %w", err)
		}
		if ttl >= 0 {
			return nil
		}
	}
	if err := r.client.Expire(ctx, key, loginWindow).Err(); err != nil {
		return fmt.Errorf("failed to set login window: %w", err)
	}
	return nil
}

// ResetLoginAttempts clears the counter after a successful sign in.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, username string) error {
	return r.client.Del(ctx, loginKey(ip, username)).Err()
}

func loginKey(ip, username string) string {
	return fmt.Sprintf("ratelimit:admin_login:%s:%s", ip, strings.ToLower(username))
}
