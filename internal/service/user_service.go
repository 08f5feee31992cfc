package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cristobalGA/api-restful/internal/cache"
	apperrors "github.com/cristobalGA/api-restful/internal/errors"
	"github.com/cristobalGA/api-restful/internal/model"
	"github.com/cristobalGA/api-restful/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UpdateUserInput carries the fields a caller may change on a user. Nil
// fields are left untouched; everything else (id, timestamps, deletion
// state) is not client-writable.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Version  *uint
}

// UserService exposes user operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error)
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
	RestoreUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateUser merges the allow-listed fields onto the stored record. A
// changed password is rehashed; a supplied stale version is rejected before
// any write happens. Without a supplied version the caller keeps
// last-write-wins semantics, so a lost race is retried on a fresh copy.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	var hashedPassword string
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashedPassword = string(hashed)
	}

	for attempt := 0; attempt < updateRetryLimit; attempt++ {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, err
		}

		if input.Version != nil && *input.Version != user.Version {
			return nil, apperrors.ErrVersionConflict
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil && *input.Email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, *input.Email)
			if err == nil && existing != nil {
				return nil, apperrors.ErrEmailTaken
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("check email uniqueness: %w", err)
			}
			user.Email = *input.Email
		}
		if input.Password != nil {
			user.PasswordHash = hashedPassword
		}

		err = s.repo.Update(ctx, user)
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

func (s *userService) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *userService) RestoreUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
