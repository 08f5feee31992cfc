package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cristobalGA/api-restful/internal/auth"
	"github.com/cristobalGA/api-restful/internal/middleware"
	"github.com/cristobalGA/api-restful/internal/model"
	"github.com/cristobalGA/api-restful/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, input service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) RestoreUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestUserHandler_Me(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()

	newServer := func(userService service.UserService) *echo.Echo {
		e := echo.New()
		h := NewUserHandler(userService, nil)
		e.GET("/api/me", h.Me, middleware.RequireToken(jwtService))
		return e
	}

	t.Run("returns the token's user", func(t *testing.T) {
		userService := new(MockUserService)
		userService.On("GetUser", mock.Anything, userID).Return(&model.User{
			ID:    userID,
			Name:  "Ana",
			Email: "ana@x.com",
		}, nil)
		e := newServer(userService)

		token, err := jwtService.GenerateToken(userID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), userID.String())
		userService.AssertExpectations(t)
	})

	t.Run("rejects request without a token", func(t *testing.T) {
		userService := new(MockUserService)
		e := newServer(userService)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		userService.AssertNotCalled(t, "GetUser")
	})
}
