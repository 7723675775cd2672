// internal/kv/redis.go
//
// Redis-backed Store.
//
// Every call is bounded by opTimeout on top of whatever deadline the
// caller's context already carries, so a stalled Redis node degrades a
// request instead of hanging it.  DeletePrefix walks the keyspace with
// SCAN in batches; KEYS is never used.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	opTimeout = 2 * time.Second
	scanBatch = 500
)

// Redis implements Store on a go-redis client.
type Redis struct {
	cli *redis.Client
}

// NewRedis dials addr and verifies connectivity before returning.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{cli: cli}, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error { return r.cli.Close() }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := r.cli.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.cli.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.cli.Del(ctx, key).Err()
}

// DeletePrefix SCANs for prefix* and deletes matches batch by batch.  The
// scan runs on the caller's context (it may outlive one op window), while
// each DEL gets its own op timeout.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := r.cli.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			delCtx, cancel := context.WithTimeout(ctx, opTimeout)
			n, err := r.cli.Del(delCtx, keys...).Result()
			cancel()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.cli.Ping(ctx).Err()
}
