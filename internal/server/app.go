// Package server wires the ConnectLink API together: it opens the
// persistence handle, builds the services and the HTTP server, and tears
// everything down on shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/connectlink/internal/logging"
	"github.com/dmitrijs2005/connectlink/internal/server/auth"
	"github.com/dmitrijs2005/connectlink/internal/server/config"
	"github.com/dmitrijs2005/connectlink/internal/server/ratelimit"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/connectlink/internal/server/rest"
	"github.com/dmitrijs2005/connectlink/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	redis  *redis.Client
	server *rest.Server
}

// openPostgres is a seam for tests.
var openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	return repomanager.OpenPostgres(ctx, dsn)
}

func openStore(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.Storage == config.StorageMemory {
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	store, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := store.RunMigrations(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return store, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, store: store}

	var limiter *ratelimit.Limiter
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
		limiter = ratelimit.NewLimiter(app.redis, "auth", c.AuthRateLimit, c.AuthRateBurst)
	}

	tokens := auth.NewTokenService(c.SecretKey, c.TokenValidityDuration)
	hasher := auth.NewPasswordHasher(auth.DefaultArgon2Params)

	deps := rest.Deps{
		Auth:          services.NewAuthService(store, tokens, hasher),
		Opportunities: services.NewOpportunityService(store),
		Dashboard:     services.NewDashboardService(store),
		Avatars:       services.NewAvatarService(store, c),
		Store:         store,
	}
	// a typed nil would defeat the limiter == nil check in rest
	if limiter != nil {
		deps.Limiter = limiter
	}

	app.server = rest.NewServer(c, logger, deps)
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then releases the store and the Redis client.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close(ctx)

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "address", app.config.HTTPAddr)

	app.initSignalHandler(ctx, cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close", "error", err)
		}
	}
	if err := app.store.Close(); err != nil {
		app.logger.Warn(ctx, "store close", "error", err)
	}
}
