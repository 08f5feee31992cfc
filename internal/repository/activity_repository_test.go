package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/cristobalGA/api-restful/internal/errors"
	"github.com/cristobalGA/api-restful/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Activity{}))
	return db
}

func createTestActivity(t *testing.T, repo ActivityRepository) *model.Activity {
	t.Helper()
	activity := &model.Activity{
		Title:       "T",
		Description: "D",
		DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UserID:      uuid.New(),
	}
	require.NoError(t, repo.Create(context.Background(), activity))
	return activity
}

func TestActivityRepository_SoftDeleteLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	activity := createTestActivity(t, repo)
	createdAt := activity.UpdatedAt

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Timestamps on the following writes must move past the create.
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, repo.SoftDelete(ctx, activity.ID))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.FindByID(ctx, activity.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The deleted row keeps its data and had its update timestamp refreshed.
	var raw model.Activity
	require.NoError(t, db.Unscoped().Where("id = ?", activity.ID).First(&raw).Error)
	assert.True(t, raw.DeletedAt.Valid)
	assert.True(t, raw.UpdatedAt.After(createdAt))

	restored, err := repo.Restore(ctx, activity.ID)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)
	assert.Equal(t, activity.ID, restored.ID)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestActivityRepository_MissingRecords(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	assert.ErrorIs(t, repo.SoftDelete(ctx, uuid.New()), gorm.ErrRecordNotFound)

	_, err := repo.Restore(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActivityRepository_UpdateVersionGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	activity := createTestActivity(t, repo)
	assert.Equal(t, uint(1), activity.Version)

	loaded, err := repo.FindByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), loaded.Version)

	stale := *loaded

	loaded.Title = "first writer"
	require.NoError(t, repo.Update(ctx, loaded))
	assert.Equal(t, uint(2), loaded.Version)

	// The second writer still carries version 1 and must lose.
	stale.Title = "second writer"
	assert.ErrorIs(t, repo.Update(ctx, &stale), apperrors.ErrVersionConflict)

	fresh, err := repo.FindByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", fresh.Title)
	assert.Equal(t, uint(2), fresh.Version)
}
