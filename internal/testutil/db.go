package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/db"
)

// OpenDB opens a migrated database in a temporary directory. It is closed
// when the test ends.
func OpenDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(context.Background(), db.Config{Path: filepath.Join(t.TempDir(), "uplink.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}
