package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/pebble"
)

// PebbleConfig contains configuration for the Pebble backend.
type PebbleConfig struct {
	// Path is the database directory.
	Path string

	// Sync forces a WAL fsync on every committed batch.
	// Default: true
	Sync bool

	// Options allows advanced tuning of Pebble. If nil, defaults are used.
	Options *pebble.Options
}

// DefaultPebbleConfig returns the default Pebble configuration.
func DefaultPebbleConfig() *PebbleConfig {
	return &PebbleConfig{
		Path: "data/achistory",
		Sync: true,
	}
}

// pebbleStore keeps node records in a Pebble database.
//
// Pebble holds a lock on its directory, so every writer lives in this
// process and updates are serialized by mu.
type pebbleStore struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
	mu        sync.Mutex
}

// NewPebbleSession opens (creating if needed) a Pebble database and returns
// a session over it. Closing the session closes the database.
func NewPebbleSession(config *PebbleConfig) (Session, error) {
	if config == nil {
		config = DefaultPebbleConfig()
	}
	if config.Path == "" {
		return nil, NewStorageError("pebble", "open", "", errors.New("database path is required"))
	}

	opts := config.Options
	if opts == nil {
		opts = &pebble.Options{}
	}

	db, err := pebble.Open(config.Path, opts)
	if err != nil {
		return nil, NewStorageError("pebble", "open", config.Path, err)
	}

	writeOpts := pebble.NoSync
	if config.Sync {
		writeOpts = pebble.Sync
	}

	slog.Default().With("component", "repository.pebble").Debug("pebble repository opened",
		"path", config.Path,
		"sync", config.Sync,
	)

	return newTreeSession("pebble", &pebbleStore{db: db, writeOpts: writeOpts}), nil
}

func (p *pebbleStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	return append([]byte(nil), value...), true, nil
}

func (p *pebbleStore) update(ctx context.Context, fn updateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	puts, deletes, err := fn(p.get)
	if err != nil {
		return err
	}

	b := p.db.NewBatch()
	defer b.Close()

	for _, key := range deletes {
		if err := b.Delete([]byte(key), nil); err != nil {
			return fmt.Errorf("batch delete %s: %w", key, err)
		}
	}
	for key, value := range puts {
		if err := b.Set([]byte(key), value, nil); err != nil {
			return fmt.Errorf("batch set %s: %w", key, err)
		}
	}
	return b.Commit(p.writeOpts)
}

func (p *pebbleStore) close() error {
	return p.db.Close()
}
