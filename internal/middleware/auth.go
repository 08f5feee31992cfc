package middleware

import (
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cristobalGA/api-restful/internal/auth"
	apperrors "github.com/cristobalGA/api-restful/internal/errors"
)

// userContextKey is where the guard stores the authenticated user id.
const userContextKey = "user"

// RequireToken gates protected routes. A request without an Authorization
// header is rejected with 401; a request whose token fails verification is
// rejected with 400. On success the token's user id is attached to the
// request context and nothing else is mutated.
func RequireToken(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:       userContextKey,
		TokenLookupFuncs: []echomw.ValuesExtractor{extractBearerToken},
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			userID, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			return userID, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Absent header and failed verification map to different
			// statuses; everything about the failure itself stays opaque.
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingToken)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// extractBearerToken splits the Authorization header on the first space and
// takes the remainder, tolerating any prefix text before the token.
func extractBearerToken(c echo.Context) ([]string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, apperrors.ErrMissingToken
	}
	_, token, found := strings.Cut(header, " ")
	if !found || token == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return []string{token}, nil
}

// UserIDFromContext returns the authenticated user id the guard attached.
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userContextKey).(uuid.UUID)
	return id, ok
}
