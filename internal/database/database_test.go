package database_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-boxoffice/internal/database"
)

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "file:a.db?_pragma=foreign_keys(1)&_foreign_keys=1", database.WithForeignKeys("file:a.db"))
	assert.Equal(t, "file:a.db?cache=shared&_pragma=foreign_keys(1)&_foreign_keys=1", database.WithForeignKeys("file:a.db?cache=shared"))
	assert.Equal(t, "file:a.db?_pragma=foreign_keys(0)", database.WithForeignKeys("file:a.db?_pragma=foreign_keys(0)"))
}

func TestForeignKeysOnEveryPooledConnection(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "fk.db"))
	bunDB, err := database.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer bunDB.Close()

	// no idle connections: every query below runs on a fresh connection
	bunDB.DB.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, bunDB.DB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}
}
