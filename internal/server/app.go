// Package server initializes and runs the EventHub API server. It opens the
// database, applies migrations, wires services and handlers, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/time/rate"

	"eventhub/internal/logging"
	"eventhub/internal/server/auth"
	"eventhub/internal/server/config"
	"eventhub/internal/server/httpapi"
	"eventhub/internal/server/repositories/repomanager"
	"eventhub/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := auth.NewTokenCodec([]byte(cfg.SecretKey), cfg.Algorithm, cfg.TokenIssuer, cfg.TokenAudience, cfg.AccessTokenValidityDuration)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	resolver := auth.NewIdentityResolver(codec, rm.Users(db))

	userService := services.NewUserService(db, rm, hasher, codec)
	eventService := services.NewEventService(db, rm, cfg)
	categoryService := services.NewCategoryService(db, rm)
	locationService := services.NewLocationService(db, rm)

	srv := httpapi.NewServer(cfg.EndpointAddr, httpapi.Services{
		Auth:       userService,
		Users:      userService,
		Events:     eventService,
		Categories: categoryService,
		Locations:  locationService,
		Resolver:   resolver,
	}, rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	go func() {
		if err := app.server.Start(); err != nil {
			app.logger.Error(ctx, "server error", "error", err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}

	app.logger.Info(context.Background(), "app stopped")
}
