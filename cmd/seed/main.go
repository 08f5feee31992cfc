package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/cristobalGA/api-restful/internal/config"
	"github.com/cristobalGA/api-restful/internal/db"
	"github.com/cristobalGA/api-restful/internal/model"
	"github.com/cristobalGA/api-restful/internal/repository"
)

// Seeds a demo user plus a few activities for local development.
func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Activity{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)

	user, err := userRepo.FindByEmail(ctx, "demo@example.com")
	if err != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = &model.User{
			Name:         "demo",
			Email:        "demo@example.com",
			PasswordHash: string(hashed),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s", user.ID)
	} else {
		log.Printf("Demo user already present: %s", user.ID)
	}

	activities := []model.Activity{
		{
			Title:       "Write project README",
			Description: "Document setup and API usage",
			DueDate:     time.Now().Add(48 * time.Hour),
			UserID:      user.ID,
		},
		{
			Title:       "Review open pull requests",
			Description: "Clear the review queue before Friday",
			DueDate:     time.Now().Add(24 * time.Hour),
			UserID:      user.ID,
		},
		{
			Title:       "Plan sprint",
			Description: "Draft the next sprint backlog",
			DueDate:     time.Now().Add(7 * 24 * time.Hour),
			UserID:      user.ID,
		},
	}

	created := 0
	for i := range activities {
		if err := activityRepo.Create(ctx, &activities[i]); err != nil {
			log.Printf("Failed to create activity %q: %v", activities[i].Title, err)
			continue
		}
		created++
	}
	log.Printf("Seed completed: %d activities created", created)
}
