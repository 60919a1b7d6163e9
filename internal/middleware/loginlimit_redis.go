package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const loginLimitKeyPrefix = "loginlimit:"

// slidingWindowScript records an attempt and reports whether it fits in the
// window. Returns {allowed, remaining}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return {0, 0}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('PEXPIRE', key, window + 10000)

return {1, limit - count - 1}
`)

// RedisLoginLimiter shares login attempt counters between replicas.
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow fails open when Redis is unreachable so an outage does not lock
// every user out.
func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now().UnixMilli()

	result, err := slidingWindowScript.Run(
		ctx,
		l.client,
		[]string{loginLimitKeyPrefix + key},
		now,
		l.window.Milliseconds(),
		l.maxAttempts,
	).Int64Slice()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis login limit check failed, allowing request")
		return true
	}

	if len(result) != 2 {
		log.Warn().Str("key", key).Msg("unexpected redis login limit result")
		return true
	}

	return result[0] == 1
}
