package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/cristobalGA/api-restful/internal/errors"
	"github.com/cristobalGA/api-restful/internal/model"
)

// ActivityRepository defines activity persistence operations.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	List(ctx context.Context) ([]model.Activity, error)
	Update(ctx context.Context, activity *model.Activity) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*model.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository builds a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) List(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	if err := r.db.WithContext(ctx).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// Update writes mutable fields guarded by the record's version, same
// discipline as the user repository.
func (r *activityRepository) Update(ctx context.Context, activity *model.Activity) error {
	res := r.db.WithContext(ctx).Model(&model.Activity{}).
		Where("id = ? AND version = ?", activity.ID, activity.Version).
		Updates(map[string]interface{}{
			"title":       activity.Title,
			"description": activity.Description,
			"due_date":    activity.DueDate,
			"completed":   activity.Completed,
			"version":     activity.Version + 1,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVersionConflict
	}
	activity.Version++
	return nil
}

func (r *activityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Activity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *activityRepository) Restore(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Activity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"deleted_at": nil, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}
