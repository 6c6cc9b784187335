// Package orders declares the repository contract for transport orders.
package orders

import (
	"context"
	"time"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// Repository defines persistence operations for orders. Guarded mutations
// report whether a row was affected; see the drivers package for the
// race-resolution semantics.
type Repository interface {
	Insert(ctx context.Context, o *models.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, includeDeleted bool) ([]*models.Order, error)
	Update(ctx context.Context, o *models.Order) (applied bool, err error)
	MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	MarkRecovered(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	HardDelete(ctx context.Context, id int64) error
}
