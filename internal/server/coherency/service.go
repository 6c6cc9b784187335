package coherency

import "sync"

// CheckResult is the outcome of a coherency check. When Matched is false the
// client must refetch; Fingerprint always carries the server's authoritative
// value so the client can update its cache key without another round trip.
type CheckResult struct {
	Matched     bool
	Fingerprint string
}

// Service orchestrates fingerprint comparison on reads and invalidation on
// writes. A single instance is shared by every repository; it is constructed
// once at startup and passed by reference, never used as an ambient global.
type Service struct {
	mu    sync.Mutex
	store *VersionStore
}

func NewService(store *VersionStore) *Service {
	return &Service{store: store}
}

// Verify compares the client-held fingerprint against the authoritative one.
// A table never seen before gets a fresh fingerprint stored lazily and is
// reported as a mismatch ("never seen → fetch fresh"). A Verify racing a
// concurrent Invalidate may report a stale fingerprint, which only costs the
// client an extra refetch; it can never report a match for stale data because
// the comparison is against whatever is stored at the instant of comparison.
func (s *Service) Verify(tableName, clientFingerprint string) (CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.store.Get(tableName)
	if !ok {
		fp, err := GenerateFingerprint()
		if err != nil {
			return CheckResult{}, err
		}
		s.store.Set(tableName, fp)
		return CheckResult{Matched: false, Fingerprint: fp}, nil
	}
	if stored == clientFingerprint {
		return CheckResult{Matched: true, Fingerprint: stored}, nil
	}
	return CheckResult{Matched: false, Fingerprint: stored}, nil
}

// Invalidate unconditionally mints and stores a new fingerprint for the
// table and returns it. Called exactly once per successful mutation, never
// on reads, and never for a mutation that failed validation. N writes in a
// loop mint N fingerprints.
func (s *Service) Invalidate(tableName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, err := GenerateFingerprint()
	if err != nil {
		return "", err
	}
	s.store.Set(tableName, fp)
	return fp, nil
}
