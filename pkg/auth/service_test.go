package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/hauskeep/hauskeep/pkg/migrations"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db, "test-secret")

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	user, err := svc.CreateUser(ctx, "admin", "hunter2")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	count, err = svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	authed, err := svc.Authenticate(ctx, "admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// Username matching is case-insensitive.
	authed, err = svc.Authenticate(ctx, "ADMIN", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	require.Error(t, err)

	_, err = svc.Authenticate(ctx, "nobody", "hunter2")
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db, "test-secret")

	user, err := svc.CreateUser(ctx, "admin", "hunter2")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Username)

	// A token signed with a different secret is rejected.
	other := NewService(db, "other-secret")
	_, err = other.ValidateToken(token)
	require.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
