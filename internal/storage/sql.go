package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	Driver string
	Create string
	Upsert string
}

var (
	// SQLiteDialect targets modernc.org/sqlite.
	SQLiteDialect = Dialect{
		Name:   BackendSQLite,
		Driver: "sqlite",
		Create: `CREATE TABLE IF NOT EXISTS kv (
    k TEXT PRIMARY KEY,
    v TEXT NOT NULL
)`,
		Upsert: `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
	}

	// MySQLDialect targets go-sql-driver/mysql.
	MySQLDialect = Dialect{
		Name:   BackendMySQL,
		Driver: "mysql",
		Create: `CREATE TABLE IF NOT EXISTS kv (
    k VARCHAR(191) NOT NULL PRIMARY KEY,
    v LONGTEXT NOT NULL
)`,
		Upsert: `INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
	}
)

// SQLStore keeps values in a two-column kv table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite store: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(SQLiteDialect.Driver, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return NewSQLStore(ctx, db, SQLiteDialect)
}

// OpenMySQL connects to the server named by dsn.
func OpenMySQL(ctx context.Context, dsn string) (*SQLStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("mysql store: dsn required")
	}
	db, err := sql.Open(MySQLDialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return NewSQLStore(ctx, db, MySQLDialect)
}

// NewSQLStore wraps an open database and creates the kv table if missing.
// The store owns db from here on.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Create); err != nil {
		return fmt.Errorf("%s: create kv table: %w", s.dialect.Name, err)
	}
	return nil
}

// Dialect reports which engine the store talks to.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: get %q: %w", s.dialect.Name, key, err)
	}
	return []byte(v), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, string(value)); err != nil {
		return fmt.Errorf("%s: set %q: %w", s.dialect.Name, key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
