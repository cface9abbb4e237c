package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "catalog:export:"

// RedisStore keeps snapshots in Redis so several instances can share them.
// Expiry is delegated to Redis; the stored envelope also carries ExpiresAt.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

type redisEnvelope struct {
	Locale     string          `json:"locale"`
	ComputedAt time.Time       `json:"computedAt"`
	ExpiresAt  time.Time       `json:"expiresAt"`
	Entries    json.RawMessage `json:"entries"`
}

// NewRedisStore connects to url and verifies the connection.
func NewRedisStore(ctx context.Context, url, keyPrefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(client, keyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(locale string) string {
	return s.keyPrefix + locale
}

func (s *RedisStore) Get(ctx context.Context, locale string) (*Snapshot, bool, error) {
	raw, err := s.client.Get(ctx, s.key(locale)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

func (s *RedisStore) Set(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(snap.Locale), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, locale string) error {
	if err := s.client.Del(ctx, s.key(locale)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// encodeSnapshot keeps Body byte-for-byte; json.Marshal would HTML-escape it.
func encodeSnapshot(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(redisEnvelope{
		Locale:     snap.Locale,
		ComputedAt: snap.ComputedAt.UTC(),
		ExpiresAt:  snap.ExpiresAt.UTC(),
		Entries:    snap.Body,
	}); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func decodeSnapshot(raw []byte) (*Snapshot, error) {
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(env.Entries, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot entries: %w", err)
	}
	return &Snapshot{
		Locale:     env.Locale,
		Entries:    entries,
		Body:       []byte(env.Entries),
		ComputedAt: env.ComputedAt,
		ExpiresAt:  env.ExpiresAt,
	}, nil
}

var _ SnapshotStore = (*RedisStore)(nil)
