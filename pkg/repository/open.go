package repository

import (
	"context"
	"fmt"

	"netcentric/achistory/pkg/config"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Open returns a session on the backend selected by cfg.
func Open(ctx context.Context, cfg *config.RepositoryConfig) (Session, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemorySession(), nil

	case BackendPebble:
		return NewPebbleSession(&PebbleConfig{
			Path: cfg.Pebble.Path,
			Sync: cfg.Pebble.Sync,
		})

	case BackendRedis:
		dialCtx := ctx
		if cfg.Redis.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, cfg.Redis.DialTimeout)
			defer cancel()
		}
		return NewRedisSession(dialCtx, &RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})

	case BackendSQLite:
		s, err := NewSQLiteSession(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			Driver:       cfg.SQLite.Driver,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported repository backend: %s", cfg.Backend)
	}
}

// Shared wraps s so that Close is a no-op. Long running processes use it to
// hand one open session to several users that each close what they open.
func Shared(s Session) Session {
	return sharedSession{s}
}

type sharedSession struct {
	Session
}

func (sharedSession) Close() error {
	return nil
}
