package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteRepo "github.com/sakif/coffee-finder/internal/repository/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateThenAddUser(t *testing.T) {
	t.Setenv("COFFEE_AUTH__BCRYPT_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "data", "coffee.db")

	_, err := execute(t, "user", "add", "--db", dbPath, "--email", "early@example.com", "--password", "password1")
	require.Error(t, err, "user add before migrate")

	out, err := execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 3 migration(s)")

	out, err = execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 0 migration(s)")

	out, err = execute(t, "user", "add", "--db", dbPath, "--email", "barista@example.com", "--password", "password1", "--admin")
	require.NoError(t, err)
	assert.Contains(t, out, "barista@example.com")

	db, err := sqliteRepo.Open(dbPath, sqliteRepo.Options{})
	require.NoError(t, err)
	defer db.Close()

	user, err := db.Users().GetByEmail(context.Background(), "barista@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestUserAdd_RejectsShortPassword(t *testing.T) {
	t.Setenv("COFFEE_AUTH__BCRYPT_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "coffee.db")

	_, err := execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)

	_, err = execute(t, "user", "add", "--db", dbPath, "--email", "short@example.com", "--password", "short", "--admin=false")
	assert.Error(t, err)
}
