package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDSN_AppendsOptions(t *testing.T) {
	require.Equal(t, "library.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", DSN(""))
	require.Equal(t, "file:x?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate",
		DSN("file:x?mode=memory&cache=shared"))
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	d, err := Open("file:dbmigrate?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	versions, err := AppliedVersions(d)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, versions)

	for _, table := range []string{"users", "books", "borrowings", "sessions"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	// Re-applying is a no-op.
	require.NoError(t, applyMigrations(d))
	versions, err = AppliedVersions(d)
	require.NoError(t, err)
	require.Len(t, versions, 2)
}

func TestRollbackLast_DropsSessions(t *testing.T) {
	d, err := Open("file:dbrollback?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, RollbackLast(d))
	versions, err := AppliedVersions(d)
	require.NoError(t, err)
	require.Equal(t, []int{1}, versions)

	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sessions'`).Scan(&n))
	require.Zero(t, n)
}

func TestSchema_RoleCheckConstraint(t *testing.T) {
	d, err := Open("file:dbrolecheck?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(`INSERT INTO users (username, password, role) VALUES ('x', 'y', 'root')`)
	require.Error(t, err)
	_, err = d.Exec(`INSERT INTO users (username, password, role) VALUES ('x', 'y', 'user')`)
	require.NoError(t, err)
}
