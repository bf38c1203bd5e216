// Command seed creates the bootstrap admin account when no admin exists yet.
package main

import (
	"context"
	"log"
	"time"

	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/config"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/repository/postgres"
	"github.com/dom/news-api/internal/service"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := logging.New(cfg.IsProduction())

	db, err := postgres.NewConnection(cfg.DatabaseURL, logger.Warn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	repos := postgres.NewRepositories(db)
	accounts := service.NewAccountService(repos.User, nil, nil, auth.NewHasher(cfg.BcryptCost), appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, created, err := accounts.EnsureAdmin(ctx, service.SeedAdminInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	if created {
		log.Printf("Admin created: %s", user.Email)
	} else {
		log.Println("Admin already exists, nothing to do")
	}
}
