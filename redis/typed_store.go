package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Store is the byte-level key/value surface TypedStore needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

var _ Store = (*Client)(nil)

// TypedStore stores JSON-encoded values of type V under a key prefix.
type TypedStore[V any] struct {
	store  Store
	prefix string
}

// NewTypedStore creates a TypedStore. Keys are stored as "<prefix>:<key>".
func NewTypedStore[V any](store Store, prefix string) *TypedStore[V] {
	return &TypedStore[V]{store: store, prefix: prefix}
}

func (s *TypedStore[V]) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Load returns the value at key. A missing key yields (nil, nil).
func (s *TypedStore[V]) Load(ctx context.Context, key string) (*V, error) {
	raw, err := s.store.Get(ctx, s.key(key))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &v, nil
}

// Save stores v at key. A zero ttl means no expiry.
func (s *TypedStore[V]) Save(ctx context.Context, key string, v *V, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("typed store marshal %q: %w", key, err)
	}
	if err := s.store.Set(ctx, s.key(key), data, ttl); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *TypedStore[V]) Delete(ctx context.Context, key string) error {
	if err := s.store.Del(ctx, s.key(key)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}
