package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kash05/court-connect/internal/config"
	"github.com/kash05/court-connect/internal/database"
	"github.com/kash05/court-connect/internal/handler/health"
	"github.com/kash05/court-connect/internal/logging"
	"github.com/kash05/court-connect/internal/migrations"
	"github.com/kash05/court-connect/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	slog.SetDefault(logger)

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	version, _ := migrations.Version(db)
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)

	users := server.NewUserDocStore(db)
	properties := server.NewPropertyDocStore(db)
	bookings := server.NewBookingDocStore(db)
	broker := server.NewBroker()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	tokens, err := server.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("building token service: %w", err)
	}

	// --- Wizard sessions ---
	wizards := server.NewWizardRegistry(cfg.WizardTTL, cfg.MaxWizards)
	defer wizards.Stop()

	if cfg.SeedDemo {
		props := server.NewPropertyService(properties, broker, logger)
		if err := server.SeedDemo(ctx, logger, users, props); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Users:      users,
		Properties: properties,
		Bookings:   bookings,
		Tokens:     tokens,
		Wizards:    wizards,
		Broker:     broker,
		Checks: map[string]health.Checker{
			"sqlite":  database.Checker{DB: db},
			"wizards": wizards,
		},
		Location:    loc,
		CORSOrigins: cfg.CORSOrigins,
		SPADir:      cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
