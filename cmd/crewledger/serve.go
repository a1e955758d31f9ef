package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/crewledger-systems/crewledger/common/fieldcrypt"
	"github.com/crewledger-systems/crewledger/common/logging"
	"github.com/crewledger-systems/crewledger/internal/cache"
	"github.com/crewledger-systems/crewledger/internal/handlers"
	"github.com/crewledger-systems/crewledger/internal/middleware"
	"github.com/crewledger-systems/crewledger/internal/notify"
	"github.com/crewledger-systems/crewledger/internal/repository"
	"github.com/crewledger-systems/crewledger/internal/server"
	"github.com/crewledger-systems/crewledger/internal/service"
	"github.com/crewledger-systems/crewledger/pkg/claims"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CrewLedger HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	repo, cleanup, err := openRepository(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	cipher, err := fieldcrypt.New(cfg.Encryption.FieldSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize field encryption: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}
	dir := cache.NewCategoryCache(repo, redisClient, cfg.Redis.TTL)

	var pub *notify.Publisher
	if cfg.NATS.Enabled {
		pub, err = notify.Connect(notify.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		})
		if err != nil {
			return err
		}
		defer pub.Close()
	}

	h := handlers.New(
		service.NewTimeclockService(repo, dir, cipher, pub),
		service.NewAttendanceService(repo, repo, dir, repo, cipher, pub),
		service.NewTimesheetService(repo),
		service.NewAuditService(repo, dir),
		service.NewOrgService(repo, dir),
	)
	auth := middleware.NewAuthMiddleware(claims.NewVerifier(cfg.Auth.JWTSecret))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(h, auth),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.InfoContext(context.Background(), "crewledger listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorContext(context.Background(), "server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.InfoContext(context.Background(), "shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.InfoContext(context.Background(), "server stopped")
	return nil
}

// openRepository selects the storage backend. Postgres runs pending
// migrations first; the in-memory store exists for development only.
func openRepository(ctx context.Context) (repository.Repository, func(), error) {
	if cfg.Database.Type == "memory" {
		return repository.NewInMemoryRepository(), func() {}, nil
	}

	connString := cfg.Database.Postgres.ConnString()
	if err := runMigrations(connString); err != nil {
		return nil, nil, err
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	repo, err := repository.NewPostgresRepository(openCtx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return repo, repo.Close, nil
}

func runMigrations(connString string) error {
	m, err := migrate.New("file://migrations", connString)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
