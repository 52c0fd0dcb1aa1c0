package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
	"blog_api/internal/database"
	"blog_api/internal/logging"
)

const usage = "usage: migrate up|down|version"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.Log)
	dsn := cfg.Database.DSN()

	switch os.Args[1] {
	case "up":
		if cfg.Database.AdminUser != "" {
			if err := database.EnsureDatabaseExists(context.Background(), cfg.Database, log); err != nil {
				log.WithError(err).Fatal("Failed to ensure database exists")
			}
		}
		if err := database.RunMigrations(dsn, log); err != nil {
			log.WithError(err).Fatal("Migration failed")
		}
	case "down":
		if err := database.RollbackMigrations(dsn, log); err != nil {
			log.WithError(err).Fatal("Rollback failed")
		}
	case "version":
		version, dirty, ok, err := database.MigrationVersion(dsn, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to read migration version")
		}
		if !ok {
			fmt.Println("no migrations applied")
			return
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
