package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/cristobalGA/api-restful/internal/errors"
	"github.com/cristobalGA/api-restful/internal/model"
)

func createTestUser(t *testing.T, repo UserRepository) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_SoftDeleteLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := createTestUser(t, repo)
	createdAt := user.UpdatedAt

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, repo.SoftDelete(ctx, user.ID))

	// Deleted users disappear from every lookup path, including the
	// login lookup by name.
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByName(ctx, user.Name)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByEmail(ctx, user.Email)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var raw model.User
	require.NoError(t, db.Unscoped().Where("id = ?", user.ID).First(&raw).Error)
	assert.True(t, raw.DeletedAt.Valid)
	assert.True(t, raw.UpdatedAt.After(createdAt))

	restored, err := repo.Restore(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserRepository_MissingRecords(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	assert.ErrorIs(t, repo.SoftDelete(ctx, uuid.New()), gorm.ErrRecordNotFound)

	_, err := repo.Restore(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateVersionGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := createTestUser(t, repo)
	assert.Equal(t, uint(1), user.Version)

	loaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)

	stale := *loaded

	loaded.Name = "first writer"
	require.NoError(t, repo.Update(ctx, loaded))
	assert.Equal(t, uint(2), loaded.Version)

	stale.Name = "second writer"
	assert.ErrorIs(t, repo.Update(ctx, &stale), apperrors.ErrVersionConflict)

	fresh, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", fresh.Name)
	assert.Equal(t, uint(2), fresh.Version)
}
