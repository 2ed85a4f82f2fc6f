package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	redisclient "github.com/eurofurence/admin-bot-go/internal/redis"
)

// rateLimitScript keeps a sorted set of request times per key and admits a
// request while fewer than limit fall into the window.
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetAt = now + window
    if #oldest >= 2 then
        resetAt = tonumber(oldest[2]) + window
    end
    return {0, resetAt}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)
return {1, now + window}
`)

// RateLimiter is a sliding window limiter shared by all instances through Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// AllowChat admits one inbound update of a chat. A limit of zero or less
// disables limiting. Redis failures are returned so the webhook can apply the
// same outage policy it uses for update de-duplication.
func (rl *RateLimiter) AllowChat(ctx context.Context, chatID int64) (bool, time.Time, error) {
	if rl.limit <= 0 {
		return true, time.Time{}, nil
	}
	return rl.evaluate(ctx, redisclient.ChatRateLimitKey(chatID), rl.limit, rl.window)
}

// CheckLimit guards unauthenticated endpoints and fails closed: when Redis
// cannot answer the request is denied.
func (rl *RateLimiter) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, resetAt time.Time) {
	allowed, resetAt, err := rl.evaluate(ctx, key, limit, window)
	if err != nil {
		log.Warn().
			Err(err).
			Str("key", key).
			Msg("rate limit check failed, denying request")
		return false, time.Now().Add(window)
	}
	return allowed, resetAt
}

func (rl *RateLimiter) evaluate(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Time, error) {
	now := time.Now().Unix()

	result, err := rateLimitScript.Run(
		ctx,
		rl.client,
		[]string{fmt.Sprintf("ratelimit:%s", key)},
		now,
		int64(window.Seconds()),
		limit,
	).Int64Slice()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("run rate limit script: %w", err)
	}
	if len(result) != 2 {
		return false, time.Time{}, fmt.Errorf("unexpected rate limit result of length %d", len(result))
	}

	return result[0] == 1, time.Unix(result[1], 0), nil
}
