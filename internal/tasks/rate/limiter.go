package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limit caps how many emails a single recipient may receive per window,
// protecting members from notification storms during bulk operations
type Limit struct {
	Window   time.Duration
	MaxSends int
}

type RecipientRateLimiter struct {
	redis *redis.Client
	limit Limit
}

func NewRecipientRateLimiter(redis *redis.Client, limit Limit) *RecipientRateLimiter {
	return &RecipientRateLimiter{
		redis: redis,
		limit: limit,
	}
}

// Allow reports whether another email may be sent to the recipient inside
// the sliding window. Denied attempts are not recorded, so task retries
// never extend the lockout.
func (rl *RecipientRateLimiter) Allow(ctx context.Context, recipient string) (bool, error) {
	key := fmt.Sprintf("email_rate_limit:%s", recipient)

	now := time.Now()
	windowStart := now.Unix() - int64(rl.limit.Window.Seconds())

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}

	if !rl.limit.allows(countCmd.Val()) {
		return false, nil
	}

	pipe = rl.redis.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, rl.limit.Window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}
	return true, nil
}

// allows reports whether one more send fits on top of the sends already
// inside the window
func (l Limit) allows(current int64) bool {
	return current < int64(l.MaxSends)
}
