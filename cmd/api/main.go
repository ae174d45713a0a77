// Package main is the entry point for the Travelog API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/curtishsu/travelog/internal/config"
	"github.com/curtishsu/travelog/internal/handler"
	"github.com/curtishsu/travelog/internal/middleware"
	"github.com/curtishsu/travelog/internal/normalize"
	"github.com/curtishsu/travelog/internal/repo"
	"github.com/curtishsu/travelog/internal/service"
	"github.com/curtishsu/travelog/spec"
)

// guestPolicy is the redaction policy applied to every guest view.
// Notes and media stay private, coordinates are coarsened to ~11 km so a
// shared trip shows the route without pinpointing campsites or homes.
var guestPolicy = normalize.Policy{
	{Field: normalize.FieldNotes, Action: normalize.ActionOmit},
	{Field: normalize.FieldCoordinates, Action: normalize.ActionCoarsen},
	{Field: normalize.FieldMedia, Action: normalize.ActionOmit},
	{Field: normalize.FieldLinks, Action: normalize.ActionOmit},
	{Field: normalize.FieldPlaces, Action: normalize.ActionKeep},
}

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Repos and services ----------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	dayRepo := repo.NewDayRepo(pool)
	typeRepo := repo.NewTypeRepo(pool)
	groupRepo := repo.NewGroupRepo(pool)

	tripSvc := service.NewTripService(tripRepo)
	daySvc := service.NewDayService(tripRepo, dayRepo)
	typeSvc := service.NewTypeService(typeRepo)
	groupSvc := service.NewGroupService(groupRepo)
	locationSvc := service.NewLocationService(tripRepo)
	statsSvc := service.NewStatsService(locationSvc)
	shareSvc := service.NewShareService(tripRepo, []byte(cfg.ShareTokenSecret), cfg.ShareTokenTTL, guestPolicy)
	exportSvc := service.NewExportService(tripRepo)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	server := handler.NewServer(tripSvc, daySvc, typeSvc, groupSvc, locationSvc, statsSvc, shareSvc, exportSvc, spec.OpenAPI)
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
