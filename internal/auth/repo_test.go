package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fonthub/pkg/database"
)

func testAuthRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewRepo(db)
}

func TestCountGatesBootstrap(t *testing.T) {
	ctx := context.Background()
	r := testAuthRepo(t)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	require.NoError(t, r.CreateUser(ctx, User{
		ID: "u1", Username: "admin", Email: "admin@example.com", PasswordHash: "x",
	}))

	n, err = r.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestGetByEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := testAuthRepo(t)

	require.NoError(t, r.CreateUser(ctx, User{
		ID: "u1", Username: "admin", Email: "admin@example.com", PasswordHash: "x",
	}))

	u, err := r.GetByEmail(ctx, "Admin@Example.COM")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, "u1", u.ID)

	u, err = r.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestTokenVersionBump(t *testing.T) {
	ctx := context.Background()
	r := testAuthRepo(t)

	require.NoError(t, r.CreateUser(ctx, User{
		ID: "u1", Username: "admin", Email: "admin@example.com", PasswordHash: "x",
	}))

	v, err := r.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 0, v)

	require.NoError(t, r.BumpTokenVersion(ctx, "u1"))
	v, err = r.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestUpdatePasswordBumpsTokenVersion(t *testing.T) {
	ctx := context.Background()
	r := testAuthRepo(t)

	require.NoError(t, r.CreateUser(ctx, User{
		ID: "u1", Username: "admin", Email: "admin@example.com", PasswordHash: "old",
	}))

	require.NoError(t, r.UpdatePasswordAndBumpTokenVersion(ctx, "u1", "new"))

	u, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "new", u.PasswordHash)
	require.Equal(t, 1, u.TokenVersion)

	require.Error(t, r.UpdatePasswordAndBumpTokenVersion(ctx, "missing", "new"))
}
