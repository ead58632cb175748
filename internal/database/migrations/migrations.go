package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"ms-boxoffice/internal/logger"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var migrationFiles embed.FS

// MigrateOptions defines configuration options for migration
type MigrateOptions struct {
	// AutoMigrate determines whether to run migrations automatically on startup
	AutoMigrate bool
	// DropExisting rolls every migration back before applying them again
	DropExisting bool
}

// DefaultOptions returns the default migration options
func DefaultOptions() MigrateOptions {
	return MigrateOptions{
		AutoMigrate:  true,
		DropExisting: false,
	}
}

// Runner applies the versioned box office schema with golang-migrate. The
// migration set is picked from the bun dialect of the handle.
type Runner struct {
	bunDB   *bun.DB
	options MigrateOptions
	logger  *logger.Logger
}

func NewRunner(bunDB *bun.DB, opts MigrateOptions, log *logger.Logger) *Runner {
	return &Runner{
		bunDB:   bunDB,
		options: opts,
		logger:  log,
	}
}

// newMigrator builds a migrator over the shared pool. The returned release
// func frees what the migrator holds without closing the pool itself.
func (r *Runner) newMigrator(ctx context.Context) (*migrate.Migrate, func(), error) {
	var (
		dir     string
		name    string
		driver  migratedb.Driver
		conn    *sql.Conn
		err     error
		release = func() {}
	)

	switch r.bunDB.Dialect().Name() {
	case dialect.SQLite:
		dir, name = "sql/sqlite", "sqlite"
		driver, err = sqlite.WithInstance(r.bunDB.DB, &sqlite.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
	case dialect.PG:
		dir, name = "sql/postgres", "postgres"
		// a dedicated connection so closing the driver leaves the pool open
		conn, err = r.bunDB.DB.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reserve migration connection: %w", err)
		}
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		release = func() { _ = driver.Close() }
	default:
		return nil, nil, fmt.Errorf("no migrations for dialect %s", r.bunDB.Dialect().Name())
	}

	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator, release, nil
}

func (r *Runner) withMigrator(ctx context.Context, fn func(m *migrate.Migrate) error) error {
	migrator, release, err := r.newMigrator(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(migrator)
}

// RunMigrations applies pending migrations according to the runner options.
// A dirty version left by a failed run is forced clean and retried.
func (r *Runner) RunMigrations(ctx context.Context) error {
	if !r.options.AutoMigrate {
		r.logger.Info("DATABASE", "Auto migration disabled, skipping schema migrations")
		return nil
	}

	return r.withMigrator(ctx, func(m *migrate.Migrate) error {
		if r.options.DropExisting {
			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration down failed: %w", err)
			}
		}

		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		if dirty {
			r.logger.Warn("DATABASE", fmt.Sprintf("Detected dirty migration %d, forcing previous version", version))
			previous := int(version) - 1
			if previous == 0 {
				previous = migratedb.NilVersion
			}
			if err := m.Force(previous); err != nil {
				return fmt.Errorf("failed to fix dirty migration: %w", err)
			}
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		version, _, err = m.Version()
		if err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		r.logger.LogDatabase("MIGRATE", "schema", fmt.Sprintf("Current schema version: %d", version))
		return nil
	})
}

// MigrateUp runs all pending migrations
func (r *Runner) MigrateUp(ctx context.Context) error {
	return r.withMigrator(ctx, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back all migrations
func (r *Runner) MigrateDown(ctx context.Context) error {
	return r.withMigrator(ctx, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		r.logger.LogDatabase("MIGRATE", "schema", "all migrations rolled back")
		return nil
	})
}

// Version reports the applied schema version. ok is false on an empty
// database.
func (r *Runner) Version(ctx context.Context) (version uint, dirty bool, ok bool, err error) {
	err = r.withMigrator(ctx, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		if verr != nil {
			return fmt.Errorf("failed to get migration version: %w", verr)
		}
		ok = true
		return nil
	})
	return version, dirty, ok, err
}
