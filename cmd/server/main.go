package main

import (
	"net/http"
	"os"
	"time"

	"horse-race/internal/config"
	"horse-race/internal/db"
	"horse-race/internal/logger"
	"horse-race/internal/server"

	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	defer func() { _ = zap.L().Sync() }()

	var srv *server.Server
	if os.Getenv("DATABASE_URL") != "" {
		conn, err := db.Open()
		if err != nil {
			zap.S().Fatalw("failed to open database", "error", err)
		}
		if err := db.Migrate(conn); err != nil {
			zap.S().Fatalw("failed to migrate database", "error", err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			zap.S().Fatalw("failed to access sql pool", "error", err)
		}
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)

		srv = server.New(conn, cfg)
		if err := srv.RestoreGames(); err != nil {
			zap.S().Warnw("failed to restore games", "error", err)
		}
	} else {
		zap.S().Warn("DATABASE_URL is not set; running without persistence")
		srv = server.New(nil, cfg)
	}

	zap.S().Infow("horse-race server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}
