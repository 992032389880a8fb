package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"anoa.com/neoboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeThread = "create_thread"
	ScopePost   = "create_post"
)

// RateLimitError is returned when a cooldown or request window is exhausted.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

func (e *RateLimitError) RetryAfterHeader() string {
	return fmt.Sprintf("%.0f", math.Ceil(e.RetryAfter.Seconds()))
}

func userKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// CheckAndSetRateLimit sets a cooldown key for the user and action. It returns
// false when the key already exists. A nil client always allows.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, userKey(userID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, userKey(userID, action)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, userKey(userID, action)).Result()
	return err
}

// Acquire takes the cooldown for action and returns a release func that clears
// it again, for callers whose write fails after the check.
func Acquire(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (func(), error) {
	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, action, limit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, rdb, userID, action)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("You are doing that too fast. Please wait %.0f seconds", math.Ceil(ttl.Seconds())),
			RetryAfter: ttl,
		}
	}

	release := func() {
		_ = ClearRateLimit(context.Background(), rdb, userID, action)
	}
	return release, nil
}

// AllowRequest counts a request from key in a fixed window. It returns a
// RateLimitError once more than max requests were seen in the window.
func AllowRequest(ctx context.Context, rdb *redis.Client, key string, max int64, window time.Duration) error {
	if rdb == nil || max <= 0 {
		return nil
	}

	redisKey := "rate_limit:ip:" + key
	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to count request in redis: %w", err)
	}

	if incr.Val() > max {
		return &RateLimitError{
			Message:    "Too many requests from this IP, please try again later.",
			RetryAfter: ttl.Val(),
		}
	}
	return nil
}
