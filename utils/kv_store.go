package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KVStore is a small string key/value store. It prefers Redis and falls back
// to an in-memory map for single-instance deployments.
type KVStore struct {
	rc     *redis.Client
	prefix string

	mu      sync.Mutex
	entries map[string]kvEntry
	now     func() time.Time
}

type kvEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewKVStore returns a store namespaced by prefix. rc may be nil.
func NewKVStore(rc *redis.Client, prefix string) *KVStore {
	return &KVStore{
		rc:      rc,
		prefix:  prefix,
		entries: map[string]kvEntry{},
		now:     time.Now,
	}
}

// Get returns the value of key and whether it was present.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.rc != nil {
		v, err := s.rc.Get(ctx, s.prefix+key).Result()
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A ttl of zero keeps the key until deleted.
func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.rc != nil {
		return s.rc.Set(ctx, s.prefix+key, value, ttl).Err()
	}

	e := kvEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if s.rc != nil {
		return s.rc.Del(ctx, s.prefix+key).Err()
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Exists reports whether key is present and not expired.
func (s *KVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}
