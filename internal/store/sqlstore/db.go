package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultMaxOpenConns = 5
	pingTimeout         = 10 * time.Second
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type Options struct {
	// Driver is DriverSQLite (default) or DriverPostgres.
	Driver string
	// Path is the SQLite database file.
	Path string
	// URL is the Postgres connection string.
	URL         string
	BusyTimeout time.Duration
	Pool        PoolConfig
}

// Open returns a pooled handle to the store. Every repository shares it; only the
// owner that opened it may close it.
func Open(ctx context.Context, opts Options) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)

	switch opts.Driver {
	case "", DriverSQLite:
		var dsn string
		dsn, err = sqliteDSN(opts.Path, opts.BusyTimeout)
		if err != nil {
			return nil, wrapErr(err)
		}
		sqlDB, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, wrapErr(err)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case DriverPostgres:
		sqlDB, err = sql.Open("pgx", opts.URL)
		if err != nil {
			return nil, wrapErr(err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", opts.Driver)
	}

	pool := opts.Pool
	if pool.MaxOpenConns <= 0 {
		pool.MaxOpenConns = DefaultMaxOpenConns
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr(err)
	}

	return db, nil
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// ResolvePath turns a relative database path into a clean absolute one.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("sqlstore: empty database path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func sqliteDSN(path string, busyTimeout time.Duration) (string, error) {
	abs, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}

	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))
	// Writers take the lock at BEGIN so read-then-write transactions cannot interleave.
	q.Set("_txlock", "immediate")

	return abs + "?" + q.Encode(), nil
}
