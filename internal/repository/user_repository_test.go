package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"transcatalog/internal/repository"
	"transcatalog/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.Create(ctx, "admin@example.com", "hash")
	require.NoError(t, err)

	byEmail, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", byID.Email)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "hash2"))
	byID, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "hash2", byID.PasswordHash)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "a@example.com", "h")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "a@example.com", "h")
	require.Error(t, err)
}

func TestUserRepository_Missing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSettingsRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	s, err := repo.Get(ctx, "jwt.secret")
	require.NoError(t, err)
	require.Nil(t, s)

	stored, err := repo.SetIfAbsent(ctx, "jwt.secret", "first")
	require.NoError(t, err)
	require.Equal(t, "first", stored)

	stored, err = repo.SetIfAbsent(ctx, "jwt.secret", "second")
	require.NoError(t, err)
	require.Equal(t, "first", stored)

	require.NoError(t, repo.Set(ctx, "jwt.secret", "rotated"))
	s, err = repo.Get(ctx, "jwt.secret")
	require.NoError(t, err)
	require.Equal(t, "rotated", s.Value)

	require.NoError(t, repo.Delete(ctx, "jwt.secret"))
	s, err = repo.Get(ctx, "jwt.secret")
	require.NoError(t, err)
	require.Nil(t, s)
}
