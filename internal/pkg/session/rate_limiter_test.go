package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// memCounters implements the handful of commands the limiter issues.
type memCounters struct {
	redis.Cmdable
	counts    map[string]int64
	ttls      map[string]time.Duration
	expireErr error
}

func newMemCounters() *memCounters {
	return &memCounters{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memCounters) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(m.counts[key])
	return cmd
}

func (m *memCounters) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second)
	ttl, ok := m.ttls[key]
	switch {
	case !ok && m.counts[key] == 0:
		cmd.SetVal(-2)
	case !ok:
		cmd.SetVal(-1)
	default:
		cmd.SetVal(ttl)
	}
	return cmd
}

func (m *memCounters) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if m.expireErr != nil {
		cmd.SetErr(m.expireErr)
		return cmd
	}
	m.ttls[key] = expiration
	cmd.SetVal(true)
	return cmd
}

func (m *memCounters) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.counts, k)
		delete(m.ttls, k)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestCheckLoginAttemptBlocksAfterLimit(t *testing.T) {
	store := newMemCounters()
	limiter := NewRateLimiter(store)
	ctx := context.Background()

	for i := int64(1); i <= maxLoginAttempts; i++ {
		allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "10.0.0.1", "Root")
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i)
		}
		if remaining != maxLoginAttempts-i {
			t.Errorf("attempt %d: remaining = %d, want %d", i, remaining, maxLoginAttempts-i)
		}
	}

	allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "10.0.0.1", "root")
	if err != nil {
		t.Fatal(err)
	}
	if allowed || remaining != 0 {
		t.Errorf("got allowed=%v remaining=%d, want blocked with 0 left", allowed, remaining)
	}

	key := loginKey("10.0.0.1", "root")
	if store.ttls[key] != loginWindow {
		t.Errorf("window = %v, want %v", store.ttls[key], loginWindow)
	}
}

func TestCheckLoginAttemptRepairsMissingWindow(t *testing.T) {
	store := newMemCounters()
	limiter := NewRateLimiter(store)
	ctx := context.Background()
	key := loginKey("10.0.0.2", "root")

	store.expireErr = errors.New("connection reset")
	if _, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.2", "root"); err == nil {
		t.Fatal("expected the expire failure to surface")
	}
	if _, ok := store.ttls[key]; ok {
		t.Fatal("counter should have no window after the failed expire")
	}

	store.expireErr = nil
	allowed, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.2", "root")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("second attempt should be allowed")
	}
	if store.ttls[key] != loginWindow {
		t.Errorf("window = %v, want %v after repair", store.ttls[key], loginWindow)
	}
}

func TestCheckLoginAttemptKeepsExistingWindow(t *testing.T) {
	store := newMemCounters()
	limiter := NewRateLimiter(store)
	ctx := context.Background()
	key := loginKey("10.0.0.3", "root")

	if _, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.3", "root"); err != nil {
		t.Fatal(err)
	}
	store.ttls[key] = time.Minute

	if _, _, err := limiter.CheckLoginAttempt(ctx, "10.0.0.3", "root"); err != nil {
		t.Fatal(err)
	}
	if store.ttls[key] != time.Minute {
		t.Errorf("window was reset to %v", store.ttls[key])
	}
}

func TestResetLoginAttempts(t *testing.T) {
	store := newMemCounters()
	limiter := NewRateLimiter(store)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, _, _ = limiter.CheckLoginAttempt(ctx, "10.0.0.4", "root")
	}
	if err := limiter.ResetLoginAttempts(ctx, "10.0.0.4", "ROOT"); err != nil {
		t.Fatal(err)
	}
	allowed, remaining, err := limiter.CheckLoginAttempt(ctx, "10.0.0.4", "root")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed || remaining != maxLoginAttempts-1 {
		t.Errorf("got allowed=%v remaining=%d after reset", allowed, remaining)
	}
}
