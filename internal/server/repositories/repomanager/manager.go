// Package repomanager wires repository constructors together behind one
// interface, so services can obtain repositories bound to either a plain
// connection or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/akosenkov/fleetdesk/internal/dbx"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/customers"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/drivers"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/orders"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/users"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/vehicles"
)

// RepositoryManager vends repository implementations bound to the provided
// DBTX and exposes a schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Drivers(db dbx.DBTX) drivers.Repository
	Vehicles(db dbx.DBTX) vehicles.Repository
	Customers(db dbx.DBTX) customers.Repository
	Orders(db dbx.DBTX) orders.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
