package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

// TokenDenyList remembers revoked token ids until they would have expired anyway.
type TokenDenyList struct {
	client *redis.Client
}

// NewTokenDenyList creates a deny-list on client.
func NewTokenDenyList(client *redis.Client) *TokenDenyList {
	return &TokenDenyList{client: client}
}

// Revoke records jti for ttl. Non-positive ttls are ignored since the token has
// already expired.
func (d *TokenDenyList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, revokedTokenPrefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether jti was revoked.
func (d *TokenDenyList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
