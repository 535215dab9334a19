// Package throttle counts failed logins per username in Redis.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_failures:"

// Options configures a RedisThrottle.
type Options struct {
	MaxFailures int
	Window      time.Duration
}

// RedisThrottle blocks a username after MaxFailures failed logins inside a
// rolling Window that starts at the first failure.
type RedisThrottle struct {
	rdb    redis.Cmdable
	max    int64
	window time.Duration
}

func New(rdb redis.Cmdable, opts Options) *RedisThrottle {
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = 5
	}
	if opts.Window <= 0 {
		opts.Window = 15 * time.Minute
	}
	return &RedisThrottle{rdb: rdb, max: int64(opts.MaxFailures), window: opts.Window}
}

func key(username string) string { return keyPrefix + username }

// Blocked reports whether username has reached the failure limit.
func (t *RedisThrottle) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := t.rdb.Get(ctx, key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read failures: %w", err)
	}
	return n >= t.max, nil
}

// recordFailure increments the counter and starts the window in one atomic
// step. A counter found without a TTL gets one, so a key can never outlive
// its window.
var recordFailure = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Failed records one failed attempt. The window starts at the first failure.
func (t *RedisThrottle) Failed(ctx context.Context, username string) error {
	if err := recordFailure.Run(ctx, t.rdb, []string{key(username)}, t.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *RedisThrottle) Reset(ctx context.Context, username string) error {
	if err := t.rdb.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("reset failures: %w", err)
	}
	return nil
}

// NewClient connects to addr and pings it.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}
