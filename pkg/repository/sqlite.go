package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLite driver names.
const (
	// DriverMattn is the cgo driver registered by github.com/mattn/go-sqlite3.
	DriverMattn = "sqlite3"
	// DriverModernc is the pure Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver, "sqlite3" or "sqlite".
	// Default: "sqlite3"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/achistory.db",
		Driver:       DriverMattn,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteSession implements Session on two relational tables: nodes keyed
// by path with a sibling position, and their properties.
type SQLiteSession struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteSession opens a SQLite database, creates the schema and returns
// a session over it.
func NewSQLiteSession(config *SQLiteConfig) (*SQLiteSession, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	driver := config.Driver
	if driver == "" {
		driver = DriverMattn
	}
	if driver != DriverMattn && driver != DriverModernc {
		return nil, NewStorageError("sqlite", "open", config.Path, fmt.Errorf("unsupported driver %q", driver))
	}

	logger := slog.Default().With("component", "repository.sqlite")

	db, err := sql.Open(driver, config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", config.Path, err)
	}

	// Every connection to ":memory:" is a separate database.
	if config.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(config.MaxOpenConns)
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteSession{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite repository initialized",
		"path", config.Path,
		"driver", driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets pragmas, creates the schema and the root node.
func (s *SQLiteSession) initialize() error {
	if s.config.WALMode && s.config.Path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", s.config.Path, err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", s.config.Path, err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", s.config.Path, err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", s.config.Path, err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return NewStorageError("sqlite", "get_schema_version", s.config.Path, err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch", s.config.Path,
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	if _, err := s.db.Exec(InsertRootNode, uuid.NewString(), RootNodeType); err != nil {
		return NewStorageError("sqlite", "create_root", s.config.Path, err)
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

func (s *SQLiteSession) fail(op, path string, err error) error {
	return NewStorageError("sqlite", op, path, err)
}

func (s *SQLiteSession) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// queryer is the subset of *sql.DB and *sql.Tx used for reads.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// lookup returns the id and type of the node at path.
func lookup(ctx context.Context, q queryer, path string) (id, nodeType string, err error) {
	err = q.QueryRowContext(ctx, `SELECT id, node_type FROM nodes WHERE path = ?`, path).Scan(&id, &nodeType)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrPathNotFound
	}
	return id, nodeType, err
}

// loadProperties reads all properties of the node with the given id.
func loadProperties(ctx context.Context, q queryer, id string) (map[string]Value, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, value_type, string_value, long_value, binary_value FROM properties WHERE node_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := make(map[string]Value)
	for rows.Next() {
		var (
			name      string
			valueType int
			str       sql.NullString
			long      sql.NullInt64
			bin       []byte
		)
		if err := rows.Scan(&name, &valueType, &str, &long, &bin); err != nil {
			return nil, err
		}
		v, err := decodeValue(PropertyType(valueType), str, long, bin)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		props[name] = v
	}
	return props, rows.Err()
}

func decodeValue(t PropertyType, str sql.NullString, long sql.NullInt64, bin []byte) (Value, error) {
	switch t {
	case PropertyTypeString:
		return StringValue(str.String), nil
	case PropertyTypeBoolean:
		return BooleanValue(long.Int64 != 0), nil
	case PropertyTypeLong:
		return LongValue(long.Int64), nil
	case PropertyTypeDate:
		ts, err := time.Parse(time.RFC3339Nano, str.String)
		if err != nil {
			return Value{}, err
		}
		return DateValue(ts), nil
	case PropertyTypeBinary:
		return BinaryValue(bin), nil
	default:
		return Value{}, fmt.Errorf("unknown property type %d", int(t))
	}
}

// encodeValue returns the column values for v.
func encodeValue(v Value) (str, long, bin any) {
	switch v.Type {
	case PropertyTypeBoolean:
		n := int64(0)
		if v.Bool {
			n = 1
		}
		return nil, n, nil
	case PropertyTypeLong:
		return nil, v.Long, nil
	case PropertyTypeDate:
		return v.Date.Format(time.RFC3339Nano), nil, nil
	case PropertyTypeBinary:
		if v.Binary == nil {
			return nil, nil, []byte{}
		}
		return nil, nil, v.Binary
	default:
		return v.Str, nil, nil
	}
}

// GetNode returns a snapshot of the node at path.
func (s *SQLiteSession) GetNode(ctx context.Context, path string) (*Node, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, s.fail("get_node", path, err)
	}
	if err := s.checkOpen(); err != nil {
		return nil, s.fail("get_node", p, err)
	}

	id, nodeType, err := lookup(ctx, s.db, p)
	if err != nil {
		return nil, s.fail("get_node", p, err)
	}
	props, err := loadProperties(ctx, s.db, id)
	if err != nil {
		return nil, s.fail("get_node", p, err)
	}
	return &Node{Path: p, Name: Name(p), Type: nodeType, Properties: props}, nil
}

// HasNode reports whether a node exists at path.
func (s *SQLiteSession) HasNode(ctx context.Context, path string) (bool, error) {
	p, err := CleanPath(path)
	if err != nil {
		return false, s.fail("has_node", path, err)
	}
	if err := s.checkOpen(); err != nil {
		return false, s.fail("has_node", p, err)
	}

	_, _, err = lookup(ctx, s.db, p)
	if errors.Is(err, ErrPathNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.fail("has_node", p, err)
	}
	return true, nil
}

// AddNode creates a node and appends it to its parent's children.
func (s *SQLiteSession) AddNode(ctx context.Context, path, nodeType string) (*Node, error) {
	p, err := CleanPath(path)
	if err != nil || p == RootPath || !validName(Name(p)) {
		return nil, s.fail("add_node", path, ErrInvalidPath)
	}
	if err := s.checkOpen(); err != nil {
		return nil, s.fail("add_node", p, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		parentPath := Parent(p)
		if _, _, err := lookup(ctx, tx, parentPath); err != nil {
			return err
		}
		if _, _, err := lookup(ctx, tx, p); err == nil {
			return ErrItemExists
		} else if !errors.Is(err, ErrPathNotFound) {
			return err
		}

		var position int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), -1) + 1 FROM nodes WHERE parent_path = ?`, parentPath).Scan(&position); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (id, path, parent_path, name, node_type, position) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), p, parentPath, Name(p), nodeType, position)
		return err
	})
	if err != nil {
		return nil, s.fail("add_node", p, err)
	}

	return &Node{Path: p, Name: Name(p), Type: nodeType, Properties: map[string]Value{}}, nil
}

// ChildNodes returns the direct children of the node at path in order.
func (s *SQLiteSession) ChildNodes(ctx context.Context, path string) ([]*Node, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, s.fail("child_nodes", path, err)
	}
	if err := s.checkOpen(); err != nil {
		return nil, s.fail("child_nodes", p, err)
	}
	if _, _, err := lookup(ctx, s.db, p); err != nil {
		return nil, s.fail("child_nodes", p, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, node_type FROM nodes WHERE parent_path = ? ORDER BY position`, p)
	if err != nil {
		return nil, s.fail("child_nodes", p, err)
	}

	type child struct{ id, path, nodeType string }
	var children []child
	for rows.Next() {
		var c child
		if err := rows.Scan(&c.id, &c.path, &c.nodeType); err != nil {
			rows.Close()
			return nil, s.fail("child_nodes", p, err)
		}
		children = append(children, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, s.fail("child_nodes", p, err)
	}

	nodes := make([]*Node, 0, len(children))
	for _, c := range children {
		props, err := loadProperties(ctx, s.db, c.id)
		if err != nil {
			return nil, s.fail("child_nodes", c.path, err)
		}
		nodes = append(nodes, &Node{Path: c.path, Name: Name(c.path), Type: c.nodeType, Properties: props})
	}
	return nodes, nil
}

// SetProperty sets a property on the node at path.
func (s *SQLiteSession) SetProperty(ctx context.Context, path, name string, value Value) error {
	p, err := CleanPath(path)
	if err != nil {
		return s.fail("set_property", path, err)
	}
	if name == "" {
		return s.fail("set_property", p, fmt.Errorf("empty property name"))
	}
	if err := s.checkOpen(); err != nil {
		return s.fail("set_property", p, err)
	}

	id, _, err := lookup(ctx, s.db, p)
	if err != nil {
		return s.fail("set_property", p, err)
	}

	str, long, bin := encodeValue(value)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO properties (node_id, name, value_type, string_value, long_value, binary_value)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(node_id, name) DO UPDATE SET
			value_type = excluded.value_type,
			string_value = excluded.string_value,
			long_value = excluded.long_value,
			binary_value = excluded.binary_value`,
		id, name, int(value.Type), str, long, bin)
	if err != nil {
		return s.fail("set_property", p, err)
	}
	return nil
}

// OrderBefore moves srcName in front of destName.
func (s *SQLiteSession) OrderBefore(ctx context.Context, parentPath, srcName, destName string) error {
	p, err := CleanPath(parentPath)
	if err != nil {
		return s.fail("order_before", parentPath, err)
	}
	if err := s.checkOpen(); err != nil {
		return s.fail("order_before", p, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, _, err := lookup(ctx, tx, p); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT name FROM nodes WHERE parent_path = ? ORDER BY position`, p)
		if err != nil {
			return err
		}
		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return err
			}
			names = append(names, name)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		ordered, err := reorder(names, srcName, destName)
		if err != nil {
			return err
		}
		for i, name := range ordered {
			if _, err := tx.ExecContext(ctx,
				`UPDATE nodes SET position = ? WHERE path = ?`, i, Join(p, name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.fail("order_before", p, err)
	}
	return nil
}

// RemoveNode removes the node at path and its subtree.
func (s *SQLiteSession) RemoveNode(ctx context.Context, path string) error {
	p, err := CleanPath(path)
	if err != nil || p == RootPath {
		return s.fail("remove_node", path, ErrInvalidPath)
	}
	if err := s.checkOpen(); err != nil {
		return s.fail("remove_node", p, err)
	}

	// substr avoids LIKE, where '_' in node names would act as a wildcard.
	prefix := p + "/"
	prefixLen := utf8.RuneCountInString(prefix)
	const subtree = `path = ? OR substr(path, 1, ?) = ?`

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, _, err := lookup(ctx, tx, p); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM properties WHERE node_id IN (SELECT id FROM nodes WHERE `+subtree+`)`,
			p, prefixLen, prefix); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE `+subtree, p, prefixLen, prefix)
		return err
	})
	if err != nil {
		return s.fail("remove_node", p, err)
	}
	return nil
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (s *SQLiteSession) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return s.fail("close", "", err)
	}
	s.logger.Info("SQLite repository closed")
	return nil
}

// Stats returns database connection statistics.
func (s *SQLiteSession) Stats() sql.DBStats {
	return s.db.Stats()
}
