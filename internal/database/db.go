package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
)

// EnsureDatabaseExists connects to the maintenance database with the admin
// credentials and creates cfg.Database when it is missing.
func EnsureDatabaseExists(ctx context.Context, cfg config.DatabaseConfig, log *logrus.Logger) error {
	if cfg.AdminUser == "" {
		return fmt.Errorf("DB_ADMIN_USER environment variable is required")
	}
	if cfg.Database == "" {
		return fmt.Errorf("DB_DATABASE environment variable is required")
	}

	log.Infof("Checking if database '%s' exists...", cfg.Database)

	poolConfig, err := pgxpool.ParseConfig(cfg.AdminDSN())
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := pool.QueryRow(ctx, query, cfg.Database).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		log.Infof("Database '%s' already exists", cfg.Database)
		return nil
	}

	log.Infof("Database '%s' does not exist. Creating it...", cfg.Database)

	// CREATE DATABASE cannot run inside a transaction and takes no parameters.
	createQuery := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.Database}.Sanitize())
	if _, err := pool.Exec(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	log.Infof("Database '%s' created successfully", cfg.Database)
	return nil
}

// Connect builds the shared connection pool and fails fast when the
// database cannot be reached. The caller owns the pool and must Close it.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logrus.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	if cfg.LogQueries {
		poolConfig.ConnConfig.Tracer = NewLoggingQueryTracer(log)
	}

	log.WithFields(logrus.Fields{
		"host":     poolConfig.ConnConfig.Host,
		"port":     poolConfig.ConnConfig.Port,
		"database": poolConfig.ConnConfig.Database,
		"user":     poolConfig.ConnConfig.User,
	}).Info("Connecting to database")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection pool established successfully")
	return pool, nil
}

func Close(pool *pgxpool.Pool, log *logrus.Logger) {
	if pool != nil {
		pool.Close()
		log.Info("Database connection pool closed")
	}
}
