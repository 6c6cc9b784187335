// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/akosenkov/fleetdesk/internal/dbx"
	"github.com/akosenkov/fleetdesk/internal/server/migrations"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/customers"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/drivers"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/orders"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/users"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/vehicles"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Drivers(db dbx.DBTX) drivers.Repository {
	return drivers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Vehicles(db dbx.DBTX) vehicles.Repository {
	return vehicles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Customers(db dbx.DBTX) customers.Repository {
	return customers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	return orders.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
