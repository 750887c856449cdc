package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter is a sliding-window rate limiter on a Redis sorted set. Window and
// Max describe the policy: at most Max events per key within any Window-sized
// interval, counted against event timestamps rather than fixed buckets, so a
// burst of login attempts cannot reset itself by straddling a bucket boundary.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
	Max    int
}

// Decision is the outcome of registering one event against the window.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Allow registers an event for key and decides whether it fits the window.
// An unconfigured limiter admits everything, so the login route keeps working
// when rate limiting is switched off.
func (l Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.Client == nil || l.Max <= 0 || l.Window <= 0 {
		return Decision{Allowed: true, Remaining: l.Max, ResetAt: time.Now().Add(l.Window)}, nil
	}

	now := time.Now()
	cutoff := float64(now.Add(-l.Window).UnixNano())
	entry := redis.Z{
		Score: float64(now.UnixNano()),
		// uuid suffix keeps two attempts in the same nanosecond distinct.
		Member: fmt.Sprintf("%s:%s", key, uuid.NewString()),
	}

	windowKey := l.Prefix + key
	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, windowKey, "-inf", fmt.Sprintf("%f", cutoff))
	pipe.ZAdd(ctx, windowKey, entry)
	countCmd := pipe.ZCard(ctx, windowKey)
	pipe.Expire(ctx, windowKey, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{ResetAt: now.Add(l.Window)}, err
	}

	used := int(countCmd.Val())
	remaining := l.Max - used
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   used <= l.Max,
		Remaining: remaining,
		ResetAt:   now.Add(l.Window),
	}, nil
}
