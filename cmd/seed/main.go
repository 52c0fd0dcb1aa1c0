package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
	"blog_api/internal/database"
	"blog_api/internal/logging"
	"blog_api/internal/repositories"
	"blog_api/internal/seed"
	"blog_api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.Log)
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer database.Close(pool, log)

	userRepo := repositories.NewUserRepository(pool)
	postRepo := repositories.NewPostRepository(pool)

	_, err = seed.Run(ctx,
		services.NewUserService(userRepo, postRepo),
		services.NewPostService(postRepo, userRepo),
		log,
	)
	if err != nil {
		log.WithError(err).Error("Seeding failed")
		database.Close(pool, log)
		os.Exit(1)
	}
}
