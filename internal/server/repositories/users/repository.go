// Package users declares the repository contract for login credentials.
package users

import (
	"context"
	"time"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// Repository defines persistence operations for user credentials. Users carry
// the same audit columns as every other entity; on top of the generic set
// there are lookups by login/email and a dedicated password update used by
// the recovery flow.
type Repository interface {
	Insert(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail returns the active user with this email or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	Update(ctx context.Context, u *models.User) (applied bool, err error)
	MarkDeleted(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	MarkRecovered(ctx context.Context, id int64, who string, when time.Time) (applied bool, err error)
	HardDelete(ctx context.Context, id int64) error

	// UpdatePassword replaces the stored password hash of an Active user.
	UpdatePassword(ctx context.Context, id int64, passwordHash, who string, when time.Time) (applied bool, err error)
}
