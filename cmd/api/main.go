package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
	"blog_api/internal/database"
	"blog_api/internal/logging"
	"blog_api/internal/metrics"
	"blog_api/internal/middlewares"
	"blog_api/internal/repositories"
	"blog_api/internal/server"
	"blog_api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logging.New(cfg.Log)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
}

// run owns every resource it opens and releases them before returning, so
// main can exit on error without skipping cleanup.
func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if cfg.Database.AdminUser != "" {
			if err := database.EnsureDatabaseExists(ctx, cfg.Database, log); err != nil {
				return fmt.Errorf("ensure database exists: %w", err)
			}
		}
		if err := database.RunMigrations(cfg.Database.DSN(), log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close(pool, log)

	if err := metrics.RegisterPool(pool); err != nil {
		log.WithError(err).Warn("Failed to register pool metrics")
	}

	verifier, err := utils.NewTokenVerifier(ctx, cfg.Auth)
	if err != nil {
		return fmt.Errorf("configure token verification: %w", err)
	}

	var revocations middlewares.RevocationChecker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		revocations = repositories.NewRevocationRepository(rdb)
		log.WithField("addr", cfg.Redis.Addr).Info("Token revocation checks enabled")
	}

	srv := server.New(server.Deps{
		Config:      cfg,
		Logger:      log,
		Users:       repositories.NewUserRepository(pool),
		Posts:       repositories.NewPostRepository(pool),
		Pinger:      pool,
		Verifier:    verifier,
		Revocations: revocations,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server gracefully ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("Server exiting")
	return nil
}
