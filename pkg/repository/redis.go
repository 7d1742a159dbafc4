package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "achistory"

// maxRedisTxAttempts bounds how often an update is retried after another
// writer changed one of the records it read.
const maxRedisTxAttempts = 20

// RedisConfig contains configuration for the Redis backend.
type RedisConfig struct {
	// Address is the Redis server address ("host:port").
	Address string

	// Password is the optional Redis password.
	Password string

	// DB selects the Redis database.
	DB int

	// Prefix namespaces all keys written by the repository.
	// Default: "achistory"
	Prefix string

	// Client, when set, is used instead of dialing Address. The session
	// does not close a client it did not create.
	Client *goredis.Client
}

// redisStore keeps node records as Redis string values. Updates are
// optimistic transactions: every record read is WATCHed and the write is
// a MULTI/EXEC that fails when another client changed one of them.
type redisStore struct {
	client    *goredis.Client
	prefix    string
	ownClient bool
}

// NewRedisSession connects to Redis and returns a session over it.
func NewRedisSession(ctx context.Context, config *RedisConfig) (Session, error) {
	if config == nil {
		return nil, NewStorageError("redis", "open", "", errors.New("redis config is required"))
	}

	store := &redisStore{
		client: config.Client,
		prefix: strings.TrimSpace(config.Prefix),
	}
	if store.prefix == "" {
		store.prefix = defaultRedisPrefix
	}

	if store.client == nil {
		if strings.TrimSpace(config.Address) == "" {
			return nil, NewStorageError("redis", "open", "", errors.New("redis address is required"))
		}
		store.client = goredis.NewClient(&goredis.Options{
			Addr:     config.Address,
			Password: config.Password,
			DB:       config.DB,
		})
		store.ownClient = true
	}

	if err := store.client.Ping(ctx).Err(); err != nil {
		if store.ownClient {
			_ = store.client.Close()
		}
		return nil, NewStorageError("redis", "ping", config.Address, err)
	}

	return newTreeSession("redis", store), nil
}

func (r *redisStore) key(key string) string {
	return r.prefix + ":" + key
}

// stringGetter is implemented by both *goredis.Client and *goredis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func readKey(ctx context.Context, c stringGetter, key string) ([]byte, bool, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *redisStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	return readKey(ctx, r.client, r.key(key))
}

func (r *redisStore) update(ctx context.Context, fn updateFunc) error {
	txf := func(tx *goredis.Tx) error {
		get := func(ctx context.Context, key string) ([]byte, bool, error) {
			k := r.key(key)
			if err := tx.Watch(ctx, k).Err(); err != nil {
				return nil, false, err
			}
			return readKey(ctx, tx, k)
		}

		puts, deletes, err := fn(get)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			for _, key := range deletes {
				pipe.Del(ctx, r.key(key))
			}
			for key, value := range puts {
				pipe.Set(ctx, r.key(key), value, 0)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxRedisTxAttempts; attempt++ {
		err := r.client.Watch(ctx, txf)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return fmt.Errorf("concurrent updates, gave up after %d attempts: %w", maxRedisTxAttempts, goredis.TxFailedErr)
}

func (r *redisStore) close() error {
	if !r.ownClient {
		return nil
	}
	return r.client.Close()
}
