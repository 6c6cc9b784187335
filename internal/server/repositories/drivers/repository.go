// Package drivers declares the repository contract for driver records.
package drivers

import (
	"context"
	"time"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// Repository defines persistence operations for drivers. The guarded
// mutations (Update, MarkDeleted, MarkRecovered) report whether a row was
// affected, so concurrent state transitions are decided by the database:
// of two racing soft-deletes exactly one observes applied=true.
type Repository interface {
	// Insert stores a new driver and returns the server-assigned id.
	Insert(ctx context.Context, d *models.Driver) (int64, error)

	// GetByID returns the driver or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Driver, error)

	// List returns drivers ordered by id, optionally including deleted rows.
	List(ctx context.Context, includeDeleted bool) ([]*models.Driver, error)

	// Update persists mutable fields of an Active driver. applied=false means
	// the row is absent or deleted.
	Update(ctx context.Context, d *models.Driver) (applied bool, err error)

	// MarkDeleted soft-deletes an Active driver; the deletion flag and the
	// change stamp are written from the same instant.
	MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)

	// MarkRecovered reactivates a Deleted driver.
	MarkRecovered(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)

	// HardDelete physically removes the row, bypassing the soft-delete
	// lifecycle. Administrative paths only.
	HardDelete(ctx context.Context, id int64) error

	// ExistsActive reports whether an Active driver with this id exists.
	ExistsActive(ctx context.Context, id int64) (bool, error)
}
