package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps resume uploads per IP per minute and per user per day with a Redis sliding window.
// With a nil client every upload is allowed.
type UploadLimiter struct {
	client       *goredis.Client
	maxPerMinute int
	maxPerDay    int
	now          func() time.Time
}

// KEYS[1] = window key, ARGV = limit, window seconds, now (unix ms). Returns 1 when allowed.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2]) * 1000
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('PEXPIRE', key, window)
return 1
`)

// NewUploadLimiter defaults to 10 uploads/min per IP and 50 uploads/day per user.
func NewUploadLimiter(client *goredis.Client, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client:       client,
		maxPerMinute: perMin,
		maxPerDay:    perDay,
		now:          time.Now,
	}
}

// AllowUpload returns (allowed, retryAfterSeconds, error). Redis errors deny the upload.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip string, userID int64) (bool, int, error) {
	if ul.client == nil {
		return true, 0, nil
	}
	now := ul.now().UnixMilli()

	allowed, err := ul.check(ctx, "ratelimit:upload:ip:"+ip, ul.maxPerMinute, 60, now)
	if err != nil {
		return false, 60, fmt.Errorf("upload limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if userID > 0 {
		allowed, err = ul.check(ctx, fmt.Sprintf("ratelimit:upload:user:%d", userID), ul.maxPerDay, 86400, now)
		if err != nil {
			return false, 3600, fmt.Errorf("upload limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}
	return true, 0, nil
}

func (ul *UploadLimiter) check(ctx context.Context, key string, limit, windowSeconds int, now int64) (bool, error) {
	n, err := slidingWindow.Run(ctx, ul.client, []string{key}, limit, windowSeconds, now).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
