package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.db")
	require.NoError(t, Migrate(path))
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.db")

	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))
}

func TestMigrateCreatesLocalEntries(t *testing.T) {
	db := openMigrated(t)

	_, err := db.Exec(`INSERT INTO local_entries(key, value) VALUES (?, ?)`, "dashboard-theme", `"dark"`)
	require.NoError(t, err)

	var value string
	require.NoError(t, db.QueryRow(`SELECT value FROM local_entries WHERE key = ?`, "dashboard-theme").Scan(&value))
	assert.Equal(t, `"dark"`, value)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openMigrated(t)
	boom := errors.New("boom")

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO local_entries(key, value) VALUES ('a', '1')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM local_entries`).Scan(&n))
	assert.Zero(t, n)
}
