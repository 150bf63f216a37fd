package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis persists the credential record under two keys sharing a prefix, so
// multiple dashboard processes can share one operator session.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed store. An empty prefix defaults to
// "guardweb".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "guardweb"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) userKey() string  { return r.prefix + ":currentUser" }
func (r *Redis) tokenKey() string { return r.prefix + ":authToken" }

func (r *Redis) Load(ctx context.Context) (Record, error) {
	vals, err := r.client.MGet(ctx, r.userKey(), r.tokenKey()).Result()
	if err != nil {
		return Record{}, fmt.Errorf("redis mget: %w", err)
	}

	var rec Record
	if s, ok := vals[0].(string); ok {
		rec.UserJSON = []byte(s)
	}
	if s, ok := vals[1].(string); ok {
		rec.Token = s
	}
	if !rec.Complete() {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *Redis) Save(ctx context.Context, rec Record) error {
	if err := r.client.MSet(ctx, r.userKey(), string(rec.UserJSON), r.tokenKey(), rec.Token).Err(); err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.userKey(), r.tokenKey()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
