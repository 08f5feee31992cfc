package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	_ "github.com/cristobalGA/api-restful/docs" // swagger docs

	"github.com/cristobalGA/api-restful/internal/auth"
	"github.com/cristobalGA/api-restful/internal/cache"
	"github.com/cristobalGA/api-restful/internal/config"
	"github.com/cristobalGA/api-restful/internal/db"
	"github.com/cristobalGA/api-restful/internal/handler"
	"github.com/cristobalGA/api-restful/internal/model"
	"github.com/cristobalGA/api-restful/internal/repository"
	"github.com/cristobalGA/api-restful/internal/router"
	"github.com/cristobalGA/api-restful/internal/service"
)

// @title Activity API
// @version 1.0
// @description REST API for users and activities with JWT authentication and soft delete.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Activity{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, cacheClient)
	activityService := service.NewActivityService(activityRepo, userRepo, cacheClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	activityHandler := handler.NewActivityHandler(activityService)

	router.Register(e, jwtService, authHandler, userHandler, activityHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
