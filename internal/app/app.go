package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-collection-api/internal/config"
	"go-collection-api/internal/database"
	"go-collection-api/internal/handler"
	"go-collection-api/internal/logger"
	"go-collection-api/internal/middleware"
	"go-collection-api/internal/permission"
	"go-collection-api/internal/repository"
	"go-collection-api/internal/router"
	"go-collection-api/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

type stores struct {
	users   repository.UserStore
	records repository.RecordStore
	cleanup []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	appRouter, err := buildHandler(cfg, st)
	if err != nil {
		runCleanup(st.cleanup)
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: st.cleanup,
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		slog.Info("opening SQLite database", "path", cfg.SQLitePath)
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		slog.Info("database ready", "driver", cfg.StorageDriver)
		return stores{
			users:   repository.NewSQLiteUserRepository(db),
			records: repository.NewSQLiteRecordRepository(db),
			cleanup: []func(){func() { _ = db.Close() }},
		}, nil

	case config.DriverPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return stores{}, fmt.Errorf("failed to ensure database schema: %w", err)
		}
		slog.Info("database ready", "driver", cfg.StorageDriver)
		return stores{
			users:   repository.NewPostgresUserRepository(db.Pool),
			records: repository.NewPostgresRecordRepository(db.Pool),
			cleanup: []func(){db.Close},
		}, nil

	default:
		slog.Warn("using in-memory storage; data is lost on restart")
		return stores{
			users:   repository.NewMemoryUserStore(),
			records: repository.NewMemoryRecordStore(),
		}, nil
	}
}

func buildHandler(cfg *config.Config, st stores) (http.Handler, error) {
	permissions := permission.NewEngine(permission.DefaultTable())

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService, err := service.NewAuthService(st.users, service.NewPasswordHasher(cfg.BcryptCost), tokens, permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	collectionService := service.NewCollectionService(st.records, cfg.Collections)

	authMiddleware := middleware.NewAuthMiddleware(authService, authService, permissions)

	return router.New(cfg, authMiddleware, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(authService),
		Collection: handler.NewCollectionHandler(collectionService),
	}), nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	// Stores close only after in-flight requests drain.
	runCleanup(a.cleanupFuncs)

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func runCleanup(funcs []func()) {
	for _, cleanup := range funcs {
		cleanup()
	}
}
