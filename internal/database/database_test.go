package database_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/libro/internal/database"
)

func openTemp(t *testing.T) (*database.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "libro.db")

	db, err := database.Open(context.Background(), "sqlite", path)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db, path
}

func TestOpen_MigratesEmptyStore(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()

	v, err := db.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	for _, table := range []string{"companies", "accounts", "entities", "vouchers", "ledger_entries", "transactions"} {
		var n int
		require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n), table)
		assert.Zero(t, n, table)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	_, path := openTemp(t)

	again, err := database.Open(context.Background(), "sqlite", path)
	require.NoError(t, err)
	defer again.Close()

	v, err := again.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *database.Tx) error {
		if err := tx.Run(ctx, `INSERT INTO companies (id, rut, name, created_at) VALUES (?, ?, ?, ?)`,
			"c1", "76543210-1", "Uno", "2024-01-01T00:00:00Z"); err != nil {
			return err
		}

		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n))
	assert.Zero(t, n)
}

func TestReset(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, db.Run(ctx, `INSERT INTO companies (id, rut, name, created_at) VALUES (?, ?, ?, ?)`,
		"c1", "76543210-1", "Uno", "2024-01-01T00:00:00Z"))
	require.NoError(t, db.Reset(ctx))

	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n))
	assert.Zero(t, n)
}

func TestBackupRestore(t *testing.T) {
	db, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, db.Run(ctx, `INSERT INTO companies (id, rut, name, created_at) VALUES (?, ?, ?, ?)`,
		"c1", "76543210-1", "Uno", "2024-01-01T00:00:00Z"))

	var buf bytes.Buffer
	n, err := db.Backup(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, strings.HasPrefix(buf.String(), "SQLite format 3"))

	target := filepath.Join(t.TempDir(), "restored.db")
	require.NoError(t, database.Restore(target, bytes.NewReader(buf.Bytes())))

	restored, err := database.Open(ctx, "sqlite", target)
	require.NoError(t, err)
	defer restored.Close()

	var name string
	require.NoError(t, restored.QueryRow(ctx, `SELECT name FROM companies WHERE id = ?`, "c1").Scan(&name))
	assert.Equal(t, "Uno", name)
}

func TestRestore_RejectsNonSnapshot(t *testing.T) {
	err := database.Restore(filepath.Join(t.TempDir(), "x.db"), strings.NewReader("not a database"))
	assert.ErrorIs(t, err, database.ErrNotSnapshot)
}
