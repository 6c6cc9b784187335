// Package models defines server-side data models persisted in the database.
package models

import "time"

// AuditFields is the audit column set shared by every domain entity.
// An entity is Active while IsDeleted is nil and Deleted once it holds the
// deletion instant. WhoChanged/WhenChanged stay nil until the first mutation
// after creation.
type AuditFields struct {
	// ID is server-assigned and immutable; zero only before the first persist.
	ID          int64      `json:"id"`
	WhoAdded    string     `json:"whoAdded"`
	WhenAdded   time.Time  `json:"whenAdded"`
	WhoChanged  *string    `json:"whoChanged"`
	WhenChanged *time.Time `json:"whenChanged"`
	IsDeleted   *time.Time `json:"isDeleted"`
	Note        *string    `json:"note"`
}

// Audit exposes the audit fields of the embedding entity. Lifecycle rules
// operate purely on this accessor, independent of the concrete entity type.
func (a *AuditFields) Audit() *AuditFields { return a }

// Deleted reports whether the entity is soft-deleted.
func (a *AuditFields) Deleted() bool { return a.IsDeleted != nil }

// Auditable is satisfied by every domain entity via the embedded AuditFields.
type Auditable interface {
	Audit() *AuditFields
}
