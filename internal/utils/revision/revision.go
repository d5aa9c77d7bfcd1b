// Package revision implements stateless optimistic-concurrency tokens.
//
// A token binds a per-ledger secret salt to the entity's most recent
// modification time, so no monotonic version counter has to be stored.
// Two writes landing within the same timestamp-resolution tick produce the
// same token; this is a known limitation of the scheme.
package revision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
)

// tokenDomain versions the hash layout so the algorithm can migrate later.
const tokenDomain = "ledger/revision/v1"

const timeFormat = time.RFC3339Nano

// Compute derives the revision token for an entity. serverTimestamp is the
// storage-maintained row timestamp and takes precedence when present; it is
// authoritative and immune to clock skew between application instances.
// fallbackTimestamp is the application-maintained LastUpdatedAt.
func Compute(salt string, serverTimestamp *time.Time, fallbackTimestamp time.Time) string {
	effective := fallbackTimestamp
	if serverTimestamp != nil {
		effective = *serverTimestamp
	}
	h := sha256.New()
	h.Write([]byte(tokenDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(salt))
	h.Write([]byte{0x00})
	h.Write([]byte(effective.UTC().Format(timeFormat)))
	return hex.EncodeToString(h.Sum(nil))
}

// Check validates a caller-supplied token against the current entity state.
// It must be called before any write transaction is opened on a revisioned
// entity. A mismatch yields apperrors.ErrRevisionMismatch.
func Check(token, salt string, serverTimestamp *time.Time, fallbackTimestamp time.Time) error {
	if token == "" {
		return apperrors.NewDetailed(apperrors.ErrRevisionMismatch, "revision token is required")
	}
	if Compute(salt, serverTimestamp, fallbackTimestamp) != token {
		return apperrors.NewDetailed(apperrors.ErrRevisionMismatch,
			fmt.Sprintf("entity was modified concurrently (token %s no longer valid)", token))
	}
	return nil
}
