package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"horse-race/internal/config"
	"horse-race/internal/logger"
)

func main() {
	logger.Init("info")
	defer zap.L().Sync()

	if err := config.LoadDotEnv(".env"); err != nil {
		zap.S().Warnw("failed to load .env", "error", err)
	}

	m, err := migrate.New("file://db/migrations", mustDatabaseURL())
	if err != nil {
		zap.S().Fatalw("migration setup failed", "error", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		zap.S().Fatalw("database migration failed", "error", err)
	}
	zap.S().Info("database migrations applied")
}

func mustDatabaseURL() string {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		zap.S().Fatal("DATABASE_URL is not set")
	}
	return dsn
}
