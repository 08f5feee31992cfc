package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristobalGA/api-restful/internal/auth"
)

func newGuardedServer(t *testing.T, jwtService *auth.JWTService) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		id, ok := UserIDFromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, id.String())
	}, RequireToken(jwtService))
	return e
}

func TestRequireToken_MissingHeader(t *testing.T) {
	e := newGuardedServer(t, auth.NewJWTService("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "access denied")
}

func TestRequireToken_InvalidToken(t *testing.T) {
	e := newGuardedServer(t, auth.NewJWTService("test-secret"))

	tests := []struct {
		name   string
		header string
	}{
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "no space separator", header: "not-a-jwt"},
		{name: "wrong signing secret", header: "Bearer " + signedWith(t, "other-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set(echo.HeaderAuthorization, tt.header)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid token")
		})
	}
}

func TestRequireToken_ValidToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	e := newGuardedServer(t, jwtService)
	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

// The reference behavior splits the header on the first space and takes
// whatever follows, so any prefix word is accepted.
func TestRequireToken_ToleratesArbitraryPrefix(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	e := newGuardedServer(t, jwtService)

	token, err := jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func signedWith(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.NewJWTService(secret).GenerateToken(uuid.New())
	require.NoError(t, err)
	return token
}
