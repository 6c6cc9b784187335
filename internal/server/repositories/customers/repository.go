// Package customers declares the repository contract for customer records.
package customers

import (
	"context"
	"time"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// Repository defines persistence operations for customers. Guarded mutations
// report whether a row was affected; see the drivers package for the
// race-resolution semantics.
type Repository interface {
	Insert(ctx context.Context, c *models.Customer) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, includeDeleted bool) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) (applied bool, err error)
	MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	MarkRecovered(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	HardDelete(ctx context.Context, id int64) error
	ExistsActive(ctx context.Context, id int64) (bool, error)
}
