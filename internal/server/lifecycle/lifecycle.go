// Package lifecycle implements the Active ⇄ Deleted state machine applied
// uniformly to every audited entity. All transitions are all-or-nothing:
// on error the entity is left untouched.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/server/models"
)

// Rules applies lifecycle transitions using an injectable clock.
type Rules struct {
	now func() time.Time
}

// NewRules constructs Rules. A nil clock defaults to time.Now.
func NewRules(now func() time.Time) *Rules {
	if now == nil {
		now = time.Now
	}
	return &Rules{now: now}
}

// Create establishes a new entity in the Active state. The id must be zero
// (ids are server-assigned); whenAdded always comes from the server clock,
// never from the client.
func (r *Rules) Create(e models.Auditable, principal string) error {
	a := e.Audit()
	if a.ID != 0 {
		return fmt.Errorf("%w: id must not be set on create", common.ErrorValidation)
	}
	a.WhoAdded = principal
	a.WhenAdded = r.now()
	a.WhoChanged = nil
	a.WhenChanged = nil
	a.IsDeleted = nil
	return nil
}

// Update stamps the acting principal on an Active entity. Updating a deleted
// entity is rejected; it must go through Recover first.
func (r *Rules) Update(e models.Auditable, principal string) error {
	a := e.Audit()
	if a.Deleted() {
		return common.ErrorEntityDeleted
	}
	r.stampChange(a, principal)
	return nil
}

// SoftDelete moves an Active entity to Deleted. Not idempotent: deleting an
// already-deleted entity is an error. IsDeleted, whoChanged and whenChanged
// are set from the same instant.
func (r *Rules) SoftDelete(e models.Auditable, principal string) error {
	a := e.Audit()
	if a.Deleted() {
		return common.ErrorAlreadyDeleted
	}
	now := r.now()
	a.IsDeleted = &now
	a.WhoChanged = &principal
	a.WhenChanged = &now
	return nil
}

// Recover moves a Deleted entity back to Active. Recovering an entity that is
// already active is an error.
func (r *Rules) Recover(e models.Auditable, principal string) error {
	a := e.Audit()
	if !a.Deleted() {
		return common.ErrorAlreadyActive
	}
	a.IsDeleted = nil
	r.stampChange(a, principal)
	return nil
}

func (r *Rules) stampChange(a *models.AuditFields, principal string) {
	now := r.now()
	a.WhoChanged = &principal
	a.WhenChanged = &now
}
