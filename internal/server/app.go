// Package server initializes and runs the fleetdesk server: configuration,
// logging, database and migrations, the coherency and recovery stores, the
// entity services, and the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/akosenkov/fleetdesk/internal/logging"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/config"
	"github.com/akosenkov/fleetdesk/internal/server/httpapi"
	"github.com/akosenkov/fleetdesk/internal/server/kvstore"
	"github.com/akosenkov/fleetdesk/internal/server/lifecycle"
	"github.com/akosenkov/fleetdesk/internal/server/mailer"
	"github.com/akosenkov/fleetdesk/internal/server/passwords"
	"github.com/akosenkov/fleetdesk/internal/server/recovery"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/repomanager"
	"github.com/akosenkov/fleetdesk/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	ch := coherency.NewService(coherency.NewVersionStore())
	rules := lifecycle.NewRules(nil)

	// The token store is distributed when a Redis address is configured so
	// every instance behind a load balancer sees the same tokens.
	var tokens kvstore.Store
	if cfg.RedisAddr != "" {
		tokens = kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		tokens = kvstore.NewMemoryStore(nil)
	}
	rec := recovery.NewService(tokens, cfg.RecoveryTokenValidityDuration, nil)

	hasher := passwords.NewBcryptHasher(0)
	ml := mailer.NewLogMailer(logger)

	driverSvc := services.NewDriverService(db, repos, ch, rules)
	vehicleSvc := services.NewVehicleService(db, repos, ch, rules)
	customerSvc := services.NewCustomerService(db, repos, ch, rules)
	orderSvc := services.NewOrderService(db, repos, ch, rules)
	userSvc := services.NewUserService(db, repos, ch, rules, rec, hasher, ml, cfg.SecretKey, cfg.ResetLinkBase)

	api := httpapi.NewServer(logger, []byte(cfg.SecretKey), ch,
		driverSvc, vehicleSvc, customerSvc, orderSvc, userSvc)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

// Run serves the HTTP API until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
