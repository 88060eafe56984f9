/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the roster engine server: configuration,
  dependency injection, graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and the YAML config
  2. Open the SQLite store
  3. Wire generator, calculator and HTTP handler
  4. Start the server, shut down cleanly on SIGINT/SIGTERM

FLAGS:
  -config  Path to the YAML config (default: configs/config.yaml;
           a missing file falls back to built-in defaults)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/farepass/roster-engine/api"
	"github.com/farepass/roster-engine/config"
	"github.com/farepass/roster-engine/roster"
	"github.com/farepass/roster-engine/store/sqlite"
	"github.com/farepass/roster-engine/subsidy"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer store.Close()

	generator := &roster.Generator{
		Schedules: store,
		Employees: store,
		Calendars: store,
		Workers:   cfg.Generation.Workers,
		Log:       log,
	}
	calculator := &subsidy.Calculator{Generator: generator, Schedules: store}

	handler := &api.Handler{
		Generator:  generator,
		Calculator: calculator,
		Employees:  store,
		Calendars:  store,
		Log:        log,
	}
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("db", cfg.Database.Path).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
