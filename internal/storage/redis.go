package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces blob keys inside a shared Redis database.
const DefaultRedisPrefix = "klotho:blob:"

// Redis stores each blob as a plain string value under prefix+key.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Storage = (*Redis)(nil)

// NewRedis checks once that the server answers. The client stays owned by
// the caller.
func NewRedis(ctx context.Context, client *redis.Client, prefix string) (*Redis, error) {
	if client == nil {
		return nil, newError(KindInvalidConfiguration, errors.New("redis client is required"))
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, newError(KindInvalidConfiguration, fmt.Errorf("redis at %s is not reachable: %w", client.Options().Addr, err))
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// blobKey returns the Redis key for a storage key
func (r *Redis) blobKey(name string) string {
	return r.prefix + name
}

// isOOM reports whether Redis refused a write because maxmemory was reached.
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}

func (r *Redis) Store(ctx context.Context, data []byte, ext string) (string, error) {
	key, err := newKey(ext)
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, r.blobKey(key), data, 0).Err(); err != nil {
		if isOOM(err) {
			return "", newError(KindOutOfSpace, err)
		}
		return "", newError(KindCannotWrite, err)
	}
	return key, nil
}

// Path returns a redis:// locator: redis://addr/db/prefix+key.
func (r *Redis) Path(ctx context.Context, key string) (string, error) {
	name, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	opts := r.client.Options()
	return fmt.Sprintf("redis://%s/%d/%s", opts.Addr, opts.DB, r.blobKey(name)), nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	name, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.blobKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, newError(KindNotFound, fmt.Errorf("blob %s not found", name))
		}
		return nil, newError(KindOther, err)
	}
	return data, nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	name, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	n, err := r.client.Del(ctx, r.blobKey(name)).Result()
	if err != nil {
		return newError(KindCannotWrite, err)
	}
	if n == 0 {
		return newError(KindNotFound, fmt.Errorf("blob %s not found", name))
	}
	return nil
}
