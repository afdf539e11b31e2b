package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationList tracks revoked token IDs until their natural expiry. JWTs
// are otherwise valid until exp, so logout denylists the jti here.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList wraps a redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke records the token ID until expiresAt.
func (r *RevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked. Redis outages fail
// open: a stateless token stays usable rather than locking everyone out.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) bool {
	if r == nil || r.client == nil {
		return false
	}
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
