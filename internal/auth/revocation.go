package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedSessionPrefix = "auth:revoked:" // auth:revoked:{session_id}

// SessionRevoker keeps a redis denylist of logged-out session ids so a stolen
// cookie stops working the moment its owner logs out. A nil revoker (redis
// not configured) disables the check.
type SessionRevoker struct {
	client *redis.Client
}

// NewSessionRevoker creates a revoker over the given redis client.
func NewSessionRevoker(client *redis.Client) *SessionRevoker {
	return &SessionRevoker{client: client}
}

// Revoke records the session id for ttl, which should match the session
// cookie lifetime so entries expire together with the cookies they block.
func (r *SessionRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if r == nil || r.client == nil || sessionID == "" {
		return nil
	}
	return r.client.Set(ctx, revokedSessionPrefix+sessionID, "1", ttl).Err()
}

// IsRevoked reports whether the session id has been revoked.
func (r *SessionRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if r == nil || r.client == nil || sessionID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedSessionPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
