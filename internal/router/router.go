package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cristobalGA/api-restful/internal/auth"
	"github.com/cristobalGA/api-restful/internal/handler"
	"github.com/cristobalGA/api-restful/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	activityHandler *handler.ActivityHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	guard := middleware.RequireToken(jwtService)

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/users", userHandler.CreateUser)

	// User routes
	api.GET("/me", userHandler.Me, guard)
	api.GET("/users", userHandler.ListUsers, guard)
	api.GET("/users/:id", userHandler.GetUser, guard)
	api.PUT("/users/restore/:id", userHandler.RestoreUser, guard)
	api.PUT("/users/:id", userHandler.UpdateUser, guard)
	api.DELETE("/users/:id", userHandler.DeleteUser, guard)

	// Activity routes
	activities := api.Group("/activity", guard)
	activities.POST("", activityHandler.CreateActivity)
	activities.GET("", activityHandler.ListActivities)
	activities.PUT("/restore/:id", activityHandler.RestoreActivity)
	activities.GET("/:id", activityHandler.GetActivity)
	activities.PUT("/:id", activityHandler.UpdateActivity)
	activities.DELETE("/:id", activityHandler.DeleteActivity)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
