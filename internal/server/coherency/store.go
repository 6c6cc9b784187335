package coherency

import "sync"

// VersionStore maps a table name to its current fingerprint. Entries live for
// the process lifetime and are replaced wholesale on every mutation; there is
// no expiry. Per-key operations are atomic; callers needing compare-and-swap
// semantics serialize through the Service.
type VersionStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewVersionStore() *VersionStore {
	return &VersionStore{entries: make(map[string]string)}
}

// Get returns the fingerprint currently stored for tableName.
func (s *VersionStore) Get(tableName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.entries[tableName]
	return fp, ok
}

// Set upserts the fingerprint for tableName, last write wins.
func (s *VersionStore) Set(tableName, fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tableName] = fingerprint
}

// Remove drops the entry for tableName. Removing an absent entry is a no-op.
func (s *VersionStore) Remove(tableName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tableName)
}
