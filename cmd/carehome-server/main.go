package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/config"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/facility"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/workflow"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/archive"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/audit"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/auth"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/db"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/middleware"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/snapshot"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carehome-server",
		Short: "Care facility management server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-30s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-30s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write a snapshot populated with the demonstration data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			engine := workflow.NewEngine(workflow.Deps{
				Facility: facility.DefaultDirectory(),
				Staff:    staff.NewDirectory(nil),
				Patients: patient.NewRegistry(),
				Logger:   zerolog.Nop(),
			})
			if err := engine.Seed(context.Background()); err != nil {
				return err
			}

			store := snapshot.NewStore(cfg.SnapshotPath)
			if err := store.Save(engine.Snapshot()); err != nil {
				return err
			}
			fmt.Printf("Seeded snapshot written to %s\n", cfg.SnapshotPath)
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// A missing signing key is tolerated in development only; sessions still
	// need one, so generate a throwaway.
	signingKey := cfg.SessionSigningKey
	if signingKey == "" {
		var raw [32]byte
		if _, err := crypto_rand.Read(raw[:]); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate session key")
		}
		signingKey = hex.EncodeToString(raw[:])
		logger.Warn().Msg("SESSION_SIGNING_KEY not set, using a throwaway key; sessions will not survive restarts")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	archiver := archive.NewPGArchiver(pool)
	auditor := audit.MultiRecorder{
		audit.NewLogRecorder(logger.With().Str("component", "audit").Logger()),
		audit.NewPGRecorder(pool, logger),
	}

	engine := workflow.NewEngine(workflow.Deps{
		Facility:      facility.DefaultDirectory(),
		Staff:         staff.NewDirectory(nil),
		Patients:      patient.NewRegistry(),
		Archiver:      archiver,
		Auditor:       auditor,
		Logger:        logger,
		ArchivePolicy: cfg.ArchiveFailurePolicy,
	})

	store := snapshot.NewStore(cfg.SnapshotPath)
	switch state, err := store.Load(); {
	case err == nil:
		engine.Restore(state)
		logger.Info().
			Time("saved_at", state.SavedAt).
			Int("patients", len(state.Patients)).
			Int("staff", len(state.Staff)).
			Msg("restored snapshot")
	case errors.Is(err, snapshot.ErrNoSnapshot):
		if cfg.SeedSampleData {
			if err := engine.Seed(ctx); err != nil {
				logger.Fatal().Err(err).Msg("failed to seed sample data")
			}
			logger.Info().Msg("seeded sample data")
		}
	default:
		logger.Fatal().Err(err).Msg("failed to load snapshot")
	}

	sessions := auth.NewSessions(signingKey, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	handler := workflow.NewHandler(engine, sessions, store, archiver, audit.NewPGRecorder(pool, logger))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	public := e.Group("/api/v1")
	api := e.Group("/api/v1", sessions.Middleware())
	handler.RegisterRoutes(public, api)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	if err := store.Save(engine.Snapshot()); err != nil {
		logger.Error().Err(err).Msg("failed to save snapshot on shutdown")
	} else {
		logger.Info().Str("path", cfg.SnapshotPath).Msg("saved snapshot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	return nil
}
