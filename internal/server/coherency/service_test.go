package coherency

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewVersionStore())
}

func TestVerify_FirstEncounterStoresFingerprint(t *testing.T) {
	s := newTestService()

	res, err := s.Verify("drivers", "anything")
	require.NoError(t, err)
	require.False(t, res.Matched)
	require.NotEmpty(t, res.Fingerprint)

	// The freshly minted fingerprint now matches.
	res2, err := s.Verify("drivers", res.Fingerprint)
	require.NoError(t, err)
	require.True(t, res2.Matched)
	require.Equal(t, res.Fingerprint, res2.Fingerprint)
}

func TestVerify_MismatchReturnsAuthoritativeFingerprint(t *testing.T) {
	s := newTestService()

	res, err := s.Verify("drivers", "")
	require.NoError(t, err)

	res2, err := s.Verify("drivers", "stale-value")
	require.NoError(t, err)
	require.False(t, res2.Matched)
	require.Equal(t, res.Fingerprint, res2.Fingerprint)
}

func TestInvalidate_OldFingerprintNoLongerMatches(t *testing.T) {
	s := newTestService()

	res, err := s.Verify("drivers", "")
	require.NoError(t, err)
	old := res.Fingerprint

	fresh, err := s.Invalidate("drivers")
	require.NoError(t, err)
	require.NotEqual(t, old, fresh)

	res2, err := s.Verify("drivers", old)
	require.NoError(t, err)
	require.False(t, res2.Matched)
	require.Equal(t, fresh, res2.Fingerprint)
}

func TestInvalidate_MintsDistinctFingerprints(t *testing.T) {
	s := newTestService()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		fp, err := s.Invalidate("drivers")
		require.NoError(t, err)
		_, dup := seen[fp]
		require.False(t, dup, "fingerprints must differ across invalidations")
		seen[fp] = struct{}{}
	}
}

func TestInvalidate_TablesAreIndependent(t *testing.T) {
	s := newTestService()

	res, err := s.Verify("vehicles", "")
	require.NoError(t, err)

	_, err = s.Invalidate("drivers")
	require.NoError(t, err)

	res2, err := s.Verify("vehicles", res.Fingerprint)
	require.NoError(t, err)
	require.True(t, res2.Matched, "invalidating one table must not touch another")
}

// A Verify racing concurrent Invalidates may observe any stored fingerprint,
// but it must never report a match for a value that is not currently stored.
func TestVerify_NeverMatchesStaleUnderConcurrentInvalidate(t *testing.T) {
	s := newTestService()

	res, err := s.Verify("drivers", "")
	require.NoError(t, err)
	stale := res.Fingerprint

	_, err = s.Invalidate("drivers")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if j%10 == 0 {
					_, err := s.Invalidate("drivers")
					require.NoError(t, err)
				}
				got, err := s.Verify("drivers", stale)
				require.NoError(t, err)
				require.False(t, got.Matched, "stale fingerprint must never match")
			}
		}()
	}
	wg.Wait()
}
