package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies every pending migration. Running it against an
// up-to-date schema is a no-op.
func RunMigrations(dsn string, log *logrus.Logger) error {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer closeMigrator(m, log)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Schema is up to date")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	log.Info("All migrations completed successfully")
	return nil
}

// RollbackMigrations reverts every applied migration.
func RollbackMigrations(dsn string, log *logrus.Logger) error {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer closeMigrator(m, log)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}

	log.Info("All migrations rolled back")
	return nil
}

// MigrationVersion reports the applied schema version. ok is false when no
// migration has run yet.
func MigrationVersion(dsn string, log *logrus.Logger) (version uint, dirty bool, ok bool, err error) {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return 0, false, false, err
	}
	defer closeMigrator(m, log)

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("migrate version: %w", err)
	}
	return version, dirty, true, nil
}

func newMigrator(dsn string, log *logrus.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise migrations: %w", err)
	}
	m.Log = migrateLogger{log: log}
	return m, nil
}

func closeMigrator(m *migrate.Migrate, log *logrus.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.WithError(srcErr).Warn("Closing migration source failed")
	}
	if dbErr != nil {
		log.WithError(dbErr).Warn("Closing migration database failed")
	}
}

// migrateURL rewrites a postgres:// DSN to the scheme registered by the
// golang-migrate pgx/v5 driver.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

type migrateLogger struct {
	log *logrus.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.log.IsLevelEnabled(logrus.DebugLevel)
}
