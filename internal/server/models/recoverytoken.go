package models

import "time"

// RecoveryToken is a single-use, time-bounded credential proving the right to
// reset a specific user's password. The opaque token string itself is the
// storage key and is not persisted inside the record.
type RecoveryToken struct {
	UserID    int64     `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}
