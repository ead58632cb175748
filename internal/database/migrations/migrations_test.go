package migrations_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/database/migrations"
)

func newEmptyDB(t *testing.T) *bun.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableNames(t *testing.T, db *bun.DB) []string {
	t.Helper()
	var names []string
	err := db.NewRaw(`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('seats', 'events', 'clients', 'tickets') ORDER BY name`).
		Scan(context.Background(), &names)
	require.NoError(t, err)
	return names
}

func TestMigrateUpAndDown(t *testing.T) {
	db := newEmptyDB(t)
	ctx := context.Background()
	runner := migrations.NewRunner(db, migrations.DefaultOptions(), nil)

	_, _, ok, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, runner.MigrateUp(ctx))
	assert.Equal(t, []string{"clients", "events", "seats", "tickets"}, tableNames(t, db))

	version, dirty, ok, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// already applied
	require.NoError(t, runner.MigrateUp(ctx))

	require.NoError(t, runner.MigrateDown(ctx))
	assert.Empty(t, tableNames(t, db))
	_, _, ok, err = runner.Version(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunMigrationsReset(t *testing.T) {
	db := newEmptyDB(t)
	ctx := context.Background()
	require.NoError(t, migrations.NewRunner(db, migrations.DefaultOptions(), nil).RunMigrations(ctx))

	_, err := db.ExecContext(ctx, `INSERT INTO seats (seat_row, seat_number, section) VALUES ('A', 1, 'A1')`)
	require.NoError(t, err)

	reset := migrations.NewRunner(db, migrations.MigrateOptions{AutoMigrate: true, DropExisting: true}, nil)
	require.NoError(t, reset.RunMigrations(ctx))

	var count int
	require.NoError(t, db.NewRaw(`SELECT COUNT(*) FROM seats`).Scan(ctx, &count))
	assert.Zero(t, count)
}

func TestRunMigrationsDisabled(t *testing.T) {
	db := newEmptyDB(t)
	runner := migrations.NewRunner(db, migrations.MigrateOptions{AutoMigrate: false}, nil)
	require.NoError(t, runner.RunMigrations(context.Background()))
	assert.Empty(t, tableNames(t, db))
}
