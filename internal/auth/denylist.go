package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "revoked_jti:"

// TokenDenylist tracks revoked JWT ids in Redis until they would have
// expired anyway. Logout revokes; the auth middleware checks.
type TokenDenylist struct {
	rdb *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return d.rdb.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
