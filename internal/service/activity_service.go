package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cristobalGA/api-restful/internal/cache"
	apperrors "github.com/cristobalGA/api-restful/internal/errors"
	"github.com/cristobalGA/api-restful/internal/model"
	"github.com/cristobalGA/api-restful/internal/repository"
)

const activityCacheTTL = 5 * time.Minute

// updateRetryLimit bounds reload attempts for updates whose caller did not
// supply an expected version and therefore asked for last-write-wins.
const updateRetryLimit = 3

// CreateActivityInput carries the fields needed to create an activity.
type CreateActivityInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	DueDate     time.Time
}

// UpdateActivityInput carries the fields a caller may change on an
// activity. Ownership, deletion state and timestamps are not writable.
type UpdateActivityInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
	Version     *uint
}

// ActivityService exposes activity operations.
type ActivityService interface {
	CreateActivity(ctx context.Context, input CreateActivityInput) (*model.Activity, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	ListActivities(ctx context.Context) ([]model.Activity, error)
	UpdateActivity(ctx context.Context, id uuid.UUID, input UpdateActivityInput) (*model.Activity, error)
	SoftDeleteActivity(ctx context.Context, id uuid.UUID) error
	RestoreActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error)
}

type activityService struct {
	repo     repository.ActivityRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewActivityService builds an ActivityService.
func NewActivityService(repo repository.ActivityRepository, userRepo repository.UserRepository, cache *cache.Client) ActivityService {
	return &activityService{repo: repo, userRepo: userRepo, cache: cache}
}

func (s *activityService) cacheKey(id uuid.UUID) string {
	return "activity:" + id.String()
}

// CreateActivity persists a new activity after verifying the owning user
// exists. An unknown owner is a caller error, not a server one.
func (s *activityService) CreateActivity(ctx context.Context, input CreateActivityInput) (*model.Activity, error) {
	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownOwner
		}
		return nil, fmt.Errorf("check owner: %w", err)
	}

	activity := &model.Activity{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		UserID:      input.UserID,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}

func (s *activityService) GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Activity
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(activity); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, activityCacheTTL)
	}
	return activity, nil
}

func (s *activityService) ListActivities(ctx context.Context) ([]model.Activity, error) {
	return s.repo.List(ctx)
}

// UpdateActivity merges the allow-listed fields onto the stored record and
// refreshes the update timestamp. A supplied stale version is rejected; a
// caller that omits the version keeps last-write-wins semantics, so a lost
// race against a concurrent writer is retried on a fresh copy.
func (s *activityService) UpdateActivity(ctx context.Context, id uuid.UUID, input UpdateActivityInput) (*model.Activity, error) {
	for attempt := 0; attempt < updateRetryLimit; attempt++ {
		activity, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrActivityNotFound
			}
			return nil, err
		}

		if input.Version != nil && *input.Version != activity.Version {
			return nil, apperrors.ErrVersionConflict
		}

		if input.Title != nil {
			activity.Title = *input.Title
		}
		if input.Description != nil {
			activity.Description = *input.Description
		}
		if input.DueDate != nil {
			activity.DueDate = *input.DueDate
		}
		if input.Completed != nil {
			activity.Completed = *input.Completed
		}

		err = s.repo.Update(ctx, activity)
		if err == nil {
			_ = s.cache.Delete(ctx, s.cacheKey(id))
			return s.repo.FindByID(ctx, id)
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) || input.Version != nil {
			return nil, err
		}
	}
	return nil, apperrors.ErrVersionConflict
}

func (s *activityService) SoftDeleteActivity(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrActivityNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *activityService) RestoreActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	activity, err := s.repo.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return activity, nil
}
