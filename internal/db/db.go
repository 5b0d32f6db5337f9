// internal/db/db.go
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL, waiting for the database to come up, and applies migrations.
func Open(databaseURL, migrationsPath string) (*gorm.DB, error) {
	var conn *gorm.DB

	err := retry.Do(
		func() error {
			var err error
			conn, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			return err
		},
		retry.Attempts(30),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(n uint, err error) {
			logging.Warn("Database connection attempt failed", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database after 30 attempts: %w", err)
	}

	if err := runMigrations(databaseURL, migrationsPath); err != nil {
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return conn, nil
}

func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("error getting sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping is used by the readiness probe.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func runMigrations(databaseURL, migrationsPath string) error {
	logging.Info("Starting migrations", zap.String("path", migrationsPath))

	files, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("error reading migrations directory: %w", err)
	}
	for _, file := range files {
		logging.Debug("Migration file", zap.String("name", file.Name()))
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("error initializing migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	logging.Info("Migrations completed successfully")
	return nil
}
