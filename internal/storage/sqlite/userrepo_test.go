package sqlite

import (
	"context"
	"testing"

	"github.com/AlexZinkM/lumen-wallet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestUserRepo_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "other")
	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestUserRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepo_DeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	err := repo.Delete(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
