package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrBadRequest indicates malformed or cross-referencing input data,
// e.g. an account whose declared parent code never resolves.
var ErrBadRequest = errors.New("bad request")

// ErrBadAccount indicates that a referenced account or entity does not exist.
var ErrBadAccount = errors.New("account not found")

// ErrRuleViolation indicates a broken structural invariant, such as a
// category account under a non-category parent or a bootstrap attempted
// against a non-empty ledger.
var ErrRuleViolation = errors.New("accounting rule violation")

// ErrInvalidData indicates that external data (e.g. a chart template file)
// is unreadable or not well-formed.
var ErrInvalidData = errors.New("invalid data")

// ErrRevisionMismatch indicates an optimistic concurrency conflict: the
// supplied revision token no longer matches the stored entity.
var ErrRevisionMismatch = errors.New("revision mismatch")

// ErrIntegrity indicates an internal inconsistency detected after a write,
// e.g. storage returning unexpected state.
var ErrIntegrity = errors.New("integrity error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// DetailedError wraps one of the sentinel kinds above with a list of
// human-readable detail strings. It stays errors.Is-compatible with its kind,
// so callers keep using errors.Is(err, apperrors.ErrBadRequest).
type DetailedError struct {
	kind    error
	Details []string
}

// NewDetailed builds a DetailedError of the given kind.
func NewDetailed(kind error, details ...string) *DetailedError {
	return &DetailedError{kind: kind, Details: details}
}

func (e *DetailedError) Error() string {
	if len(e.Details) == 0 {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.kind.Error(), strings.Join(e.Details, "; "))
}

func (e *DetailedError) Unwrap() error {
	return e.kind
}

// DetailsOf extracts the detail list from an error chain, if any.
func DetailsOf(err error) []string {
	var de *DetailedError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
