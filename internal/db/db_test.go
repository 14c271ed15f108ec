package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hangman.db")
	conn, err := OpenAndMigrate(path)
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"users", "results", "goose_db_version"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// running again is a no-op
	require.NoError(t, Migrate(conn))
}

func TestForeignKeysEnforced(t *testing.T) {
	conn, err := OpenAndMigrate(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer conn.Close()

	var on int
	require.NoError(t, conn.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)
}
