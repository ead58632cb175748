package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/database/migrations"
)

// NewTestDB returns a private in-memory sqlite database with the schema applied.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runner := migrations.NewRunner(db, migrations.DefaultOptions(), nil)
	require.NoError(t, runner.MigrateUp(ctx))
	return db
}
