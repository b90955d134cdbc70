package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/jmolinera/go-session-center/sessions"
)

var _ sessions.Cache = (*Redis)(nil)

// Redis is a distributed session cache. Sessions are stored as JSON with a
// per-key TTL enforced by the server.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the cached session for key, or (nil, nil) when absent.
func (r *Redis) Get(ctx context.Context, key string) (*sessions.SessionContext, error) {
	data, err := r.client.Get(ctx, Namespace+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Redis.Get] get")
	}

	var session sessions.SessionContext
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "[Redis.Get] unmarshal")
	}
	return &session, nil
}

// Put stores the session under key for ttl.
func (r *Redis) Put(ctx context.Context, key string, value *sessions.SessionContext, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "[Redis.Put] marshal")
	}
	if err := r.client.Set(ctx, Namespace+key, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "[Redis.Put] set")
	}
	return nil
}

// Evict removes the entry for key. Absent keys are not an error.
func (r *Redis) Evict(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, Namespace+key).Err(); err != nil {
		return errors.Wrap(err, "[Redis.Evict] del")
	}
	return nil
}

// Clear removes every entry in the namespace, scanning in batches so large
// keyspaces do not block the server.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, Namespace+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return errors.Wrap(err, "[Redis.Clear] del")
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "[Redis.Clear] scan")
	}
	return flush()
}
