package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dvanheule/comptoir/internal/config"
	"github.com/dvanheule/comptoir/internal/db"
	"github.com/dvanheule/comptoir/internal/server"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.Env)

	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database setup failed")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed")
		return
	}
	if err := db.Seed(conn); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	if *seedOnlyFlag {
		log.Info().Msg("seeding completed")
		return
	}

	deps := server.NewDeps(conn, cfg)
	handler := server.New(deps)

	scheduler := startSweeper(deps, cfg.SweepInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("scheduler shutdown")
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// startSweeper schedules the periodic auto-confirmation of past-deadline
// orders. The sweep also runs before every order read, so the job is a
// safety net for idle periods; a zero interval disables it.
func startSweeper(deps *server.Deps, interval time.Duration) gocron.Scheduler {
	if interval <= 0 {
		log.Info().Msg("order sweep scheduler disabled")
		return nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := deps.Orders.AutoConfirmPastDeadline(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled auto-confirm sweep failed")
			}
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduling sweep job failed")
	}
	scheduler.Start()
	log.Info().Dur("interval", interval).Msg("order sweep scheduler started")
	return scheduler
}
