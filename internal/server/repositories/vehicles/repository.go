// Package vehicles declares the repository contract for vehicle records.
package vehicles

import (
	"context"
	"time"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// Repository defines persistence operations for vehicles. Guarded mutations
// report whether a row was affected; see the drivers package for the
// race-resolution semantics.
type Repository interface {
	Insert(ctx context.Context, v *models.Vehicle) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	List(ctx context.Context, includeDeleted bool) ([]*models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) (applied bool, err error)
	MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	MarkRecovered(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	HardDelete(ctx context.Context, id int64) error
	ExistsActive(ctx context.Context, id int64) (bool, error)
}
