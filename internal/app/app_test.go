package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrationsSortsSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700))

	got, err := listMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, got)

	_, err = listMigrations(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestListMigrationsFindsRepositoryMigrations(t *testing.T) {
	got, err := listMigrations(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Contains(t, got, "0001_init.sql")
}

func TestSeedFileName(t *testing.T) {
	assert.Equal(t, "dev_seed.sql", seedFileName("dev"))
	assert.Equal(t, "custom.sql", seedFileName("custom.sql"))
}

func TestShouldRetryMigration(t *testing.T) {
	assert.False(t, shouldRetryMigration(nil))
	assert.True(t, shouldRetryMigration(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.True(t, shouldRetryMigration(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}))
	assert.False(t, shouldRetryMigration(&pgconn.PgError{Code: pgerrcode.SyntaxError}))
	assert.True(t, shouldRetryMigration(context.DeadlineExceeded))
	assert.True(t, shouldRetryMigration(pgx.ErrTxClosed))
	assert.False(t, shouldRetryMigration(errors.New("boom")))
}

func TestMigrationBackoffIsCapped(t *testing.T) {
	assert.Equal(t, migrationBaseBackoff, migrationBackoff(1))
	assert.Equal(t, 2*migrationBaseBackoff, migrationBackoff(2))
	assert.Equal(t, migrationMaxBackoff, migrationBackoff(10))
	assert.Less(t, migrationBackoff(2), time.Second)
}

func TestRootCommandRejectsUnknownCommand(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"explode"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())

	cmd = NewRootCommand()
	cmd.SetArgs([]string{"seed"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute(), "seed needs a name")
}
