package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	throttleWindow = time.Hour
	throttleLimit  = 5
)

// PasswordThrottle caps temporary-password issuance per email address.
// Key format: pwdreq:<email>, INCR with a window TTL set on first hit.
type PasswordThrottle struct {
	client *redis.Client
}

// NewPasswordThrottle creates a PasswordThrottle wrapping the given Redis
// client.
func NewPasswordThrottle(client *redis.Client) *PasswordThrottle {
	return &PasswordThrottle{client: client}
}

// Allow reports whether another temporary password may be issued for key
// within the current window.
func (t *PasswordThrottle) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("pwdreq:%s", key)

	n, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, redisKey, throttleWindow).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= throttleLimit, nil
}
