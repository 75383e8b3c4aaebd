package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fintrack-backend/internal/app"
	"fintrack-backend/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	fiberApp, db, rdb, sched, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	// Verify connections before serving
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("database handle unavailable")
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		log.Info().Msg("Postgres connected")
	} else {
		log.Warn().Msg("DATABASE_URL not set; running cache-only, guest sessions only")
	}
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	log.Info().Msg("Redis connected")

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Flush pending debounced saves before the process exits, then stop
	// accepting requests.
	log.Info().Msg("shutting down")
	sched.Close()
	if err := fiberApp.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
