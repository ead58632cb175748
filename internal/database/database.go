package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured store and returns a bun handle. Postgres
// connections are retried a few times because the database container often
// comes up after the service.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, cfg.DSN)
	case DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// OpenSQLite opens a sqlite database through sqliteshim. The pool is pinned
// to one connection since sqlite serialises writers anyway. Foreign keys are
// switched on through the DSN so every connection the pool opens enforces
// them.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	if err := ensureSQLiteDir(dsn); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, WithForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	var enabled int
	if err := sqldb.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("check sqlite foreign keys: %w", err)
	}
	if enabled != 1 {
		sqldb.Close()
		return nil, fmt.Errorf("sqlite foreign keys are disabled for %q", dsn)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// WithForeignKeys adds the foreign key pragma to a sqlite DSN, in the forms
// understood by both drivers sqliteshim may pick.
func WithForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_foreign_keys=1"
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.PingContext(ctx)
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		sqldb.Close()
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres after %d attempts: %w", maxRetries, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// ensureSQLiteDir creates the parent directory of a file backed DSN.
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return nil
		}
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create sqlite directory %s: %w", dir, err)
	}
	return nil
}
