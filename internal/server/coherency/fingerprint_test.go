package coherency

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateFingerprint_Format(t *testing.T) {
	fp, err := GenerateFingerprint()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(fp)
	require.NoError(t, err, "fingerprint must be valid base64")
	require.Len(t, raw, fingerprintSaltSize+fingerprintPayloadSize)
}

func TestGenerateFingerprint_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		fp, err := GenerateFingerprint()
		require.NoError(t, err)
		if _, dup := seen[fp]; dup {
			t.Fatalf("duplicate fingerprint after %d iterations", i)
		}
		seen[fp] = struct{}{}
	}
}
