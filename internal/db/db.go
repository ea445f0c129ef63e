package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"surfsup-server/internal/config"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open returns a pooled handle to the climate store. At debug level every
// statement is logged through a wrapping connector.
func Open(cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if logger != nil && logger.Enabled(context.Background(), slog.LevelDebug) {
		drv, err := driverFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		connector, err := NewLoggingConnector(drv, dsn, logger)
		if err != nil {
			return nil, err
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Validate connectivity early
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func driverFor(name string) (driver.Driver, error) {
	switch name {
	case DriverSQLite:
		return &sqlite3.SQLiteDriver{}, nil
	case DriverPostgres:
		return &pq.Driver{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", name)
	}
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Driver != DriverSQLite {
		return "", fmt.Errorf("driver %q requires DB_DSN", cfg.Driver)
	}

	path := cfg.Path
	if path == "" {
		return "", fmt.Errorf("sqlite path is empty")
	}

	// - foreign_keys=on: enforce FK constraints
	// - busy_timeout: wait instead of failing with "database is locked"
	// - mode=ro: the API never writes; a missing file is an error, not a new db
	// - journal_mode=DELETE when writable: the loaded file must stay openable
	//   read-only, which WAL side files can prevent on read-only mounts
	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
	}
	if cfg.ReadOnly {
		params = append([]string{"mode=ro"}, params...)
	} else {
		dir := filepath.Dir(path)
		if dir != "." && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		params = append(params, "_journal_mode=DELETE")
	}

	// If caller provided something like "file:/data/hawaii.sqlite?x=y" as Path, don't double-wrap
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
