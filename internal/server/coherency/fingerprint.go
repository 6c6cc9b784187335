// Package coherency implements the table-version protocol: every table has an
// opaque fingerprint that is re-minted on each successful mutation, and
// clients compare their cached fingerprint against the server's to decide
// whether to refetch. The fingerprint is a random version marker, not a
// content hash: identical content after two edits must still mismatch.
package coherency

import (
	"encoding/base64"

	"github.com/akosenkov/fleetdesk/internal/common"
)

const (
	fingerprintSaltSize    = 16
	fingerprintPayloadSize = 32
)

// GenerateFingerprint mints a fresh table fingerprint: a 16-byte salt and a
// 32-byte payload of CSPRNG output, base64-encoded. The only failure mode is
// entropy-source exhaustion, which is surfaced unchanged and must be treated
// as fatal for the operation.
func GenerateFingerprint() (string, error) {
	salt, err := common.GenerateRandByteArray(fingerprintSaltSize)
	if err != nil {
		return "", err
	}
	payload, err := common.GenerateRandByteArray(fingerprintPayloadSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(append(salt, payload...)), nil
}
