package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)

	"github.com/MrSnakeDoc/klotho/internal/database/migrations"
	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/utils"
)

const (
	// DriverModernc is the pure Go SQLite driver and the default.
	DriverModernc = "sqlite"
	// DriverMattn is the cgo SQLite driver.
	DriverMattn = "sqlite3"
)

// ConnectOptions describes how to open the bookmarks database.
type ConnectOptions struct {
	Driver       string        // "sqlite" or "sqlite3"
	Path         string        // database file path
	MaxOpenConns int           // pool size, SQLite is happiest with 1
	BusyTimeout  time.Duration // how long a writer waits on a locked database
	Retry        utils.RetryPolicy
}

// DSN builds the driver specific data source name.
func (o ConnectOptions) DSN() (string, error) {
	path := strings.TrimSpace(o.Path)
	if path == "" {
		return "", fmt.Errorf("database path is required")
	}
	path = filepath.Clean(path)
	busy := o.BusyTimeout.Milliseconds()

	switch o.Driver {
	case DriverModernc, "":
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path, busy), nil
	case DriverMattn:
		return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on", path, busy), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", o.Driver)
	}
}

// Open opens the pool, waits for it to answer and applies embedded migrations.
// The caller owns the returned handle and must Close it.
func Open(ctx context.Context, opts ConnectOptions, log logger.Logger) (*sql.DB, error) {
	dsn, err := opts.DSN()
	if err != nil {
		return nil, err
	}
	driver := opts.Driver
	if driver == "" {
		driver = DriverModernc
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	target := fmt.Sprintf("%s:%s", driver, opts.Path)
	if err := utils.PingWithRetry(ctx, target, opts.Retry, db.PingContext, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	applied, err := Migrate(ctx, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, name := range applied {
		log.Info("migration applied", logger.String("name", name))
	}

	return db, nil
}
