package utils

import (
	"context"
	"time"
)

// TokenBlacklist remembers revoked token ids until their natural expiry.
type TokenBlacklist struct {
	kv *KVStore
}

func NewTokenBlacklist(kv *KVStore) *TokenBlacklist {
	return &TokenBlacklist{kv: kv}
}

// Revoke stores id until expiresAt. Already expired tokens are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.kv.Set(ctx, id, "1", ttl)
}

// IsRevoked fails open on store errors to avoid locking the admin out.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, id string) bool {
	ok, err := b.kv.Exists(ctx, id)
	if err != nil {
		Sugar.Warnf("token blacklist lookup failed: %v", err)
		return false
	}
	return ok
}
