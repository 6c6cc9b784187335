// Package recovery implements single-use, time-bounded password-recovery
// tokens. Tokens live in a TTL key/value store; expiry is additionally
// checked lazily at validation time so the in-process and distributed store
// variants behave identically.
package recovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/server/kvstore"
	"github.com/akosenkov/fleetdesk/internal/server/models"
)

const keyPrefix = "pwdreset:"

// DefaultTTL is the token lifetime used when the config does not override it.
const DefaultTTL = time.Hour

// Service issues, validates, and invalidates recovery tokens.
//
// Issue deliberately does not revoke prior outstanding tokens for the same
// user, so several valid reset links can coexist until each expires or is
// consumed. That mirrors the request-recovery flow this service backs; revisit
// if the policy tightens.
type Service struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewService constructs a Service. A non-positive ttl falls back to
// DefaultTTL; a nil clock defaults to time.Now.
func NewService(store kvstore.Store, ttl time.Duration, now func() time.Time) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, ttl: ttl, now: now}
}

// Issue creates a fresh unused token for userID and stores it with the
// configured TTL. The returned token string is the only handle to the record.
func (s *Service) Issue(ctx context.Context, userID int64) (string, error) {
	token, err := s.generateToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	record := models.RecoveryToken{
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
		Used:      false,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding recovery token: %w", err)
	}

	if err := s.store.Set(ctx, keyPrefix+token, string(payload), s.ttl); err != nil {
		return "", fmt.Errorf("storing recovery token: %w", err)
	}
	return token, nil
}

// Validate returns the user id associated with token iff the token exists,
// is unexpired, and is unused. Every other case (unknown, expired, already
// used) yields ok=false with no error, so a caller probing tokens cannot
// tell the cases apart. The error return is reserved for store failures.
func (s *Service) Validate(ctx context.Context, token string) (int64, bool, error) {
	record, found, err := s.load(ctx, token)
	if err != nil {
		return 0, false, err
	}
	if !found || record.Used || !s.now().Before(record.ExpiresAt) {
		return 0, false, nil
	}
	return record.UserID, true, nil
}

// Invalidate marks token as used, making it permanently invalid even before
// its expiry. Invalidating an unknown token is a no-op, so repeated or
// speculative calls are safe.
func (s *Service) Invalidate(ctx context.Context, token string) error {
	record, found, err := s.load(ctx, token)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	remaining := record.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return s.store.Remove(ctx, keyPrefix+token)
	}

	record.Used = true
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding recovery token: %w", err)
	}
	if err := s.store.Set(ctx, keyPrefix+token, string(payload), remaining); err != nil {
		return fmt.Errorf("storing recovery token: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, token string) (models.RecoveryToken, bool, error) {
	var record models.RecoveryToken

	payload, ok, err := s.store.TryGet(ctx, keyPrefix+token)
	if err != nil {
		return record, false, fmt.Errorf("reading recovery token: %w", err)
	}
	if !ok {
		return record, false, nil
	}
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return record, false, fmt.Errorf("%w: corrupt recovery token record", common.ErrorInternal)
	}
	return record, true, nil
}

// generateToken produces an opaque token: a dashless UUID concatenated with
// 16 bytes of random hex, comfortably above the 128-bit entropy floor.
func (s *Service) generateToken() (string, error) {
	suffix, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "") + suffix, nil
}
