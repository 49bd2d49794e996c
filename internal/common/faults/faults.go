// internal/common/faults/faults.go
// Typed error taxonomy for the authorization engine.
// Every denial carries a machine-readable reason code so callers can render
// a precise message and decide whether a retry makes sense.

package faults

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	// Validation means the input itself was malformed (amount <= 0, unknown role).
	Validation Kind = iota
	// PolicyDenied means an eligibility or consent rule failed. Not retryable.
	PolicyDenied
	// StateConflict means the operation lost to existing state (duplicate
	// pending request, transition on a terminal request, race loser).
	StateConflict
	// Unauthorized means the actor is not allowed to perform the operation.
	Unauthorized
	// DependencyUnavailable means a collaborator (store, moderation provider)
	// failed. Retryable, never conflated with a policy denial.
	DependencyUnavailable
)

// Reason codes surfaced to callers.
const (
	ReasonInvalidAmount      = "invalid-amount"
	ReasonUnknownRole        = "unknown-role"
	ReasonCommunityRecipient = "community-recipient"
	ReasonWrongTier          = "wrong-tier"
	ReasonNotReceptive       = "not-receptive"
	ReasonSelfTransfer       = "self-transfer"
	ReasonSelfRequest        = "self-request"
	ReasonQuotaExceeded      = "QuotaExceeded"
	ReasonReceiverClosed     = "ReceiverClosed"
	ReasonNotMentor          = "NotMentor"
	ReasonDuplicatePending   = "DuplicatePending"
	ReasonInvalidActor       = "InvalidActor"
	ReasonNotPending         = "NotPending"
	ReasonConsentRequired    = "consent-required"
)

// Error is the engine's error type. Reason is stable and machine-readable;
// Err, when set, carries the underlying cause.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an engine error with a reason code.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap attaches a cause to an engine error.
func Wrap(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// Dependency wraps a collaborator failure.
func Dependency(err error) *Error {
	return Wrap(DependencyUnavailable, "dependency-unavailable", err)
}

// KindOf extracts the kind of an engine error, or ok=false for foreign errors.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// ReasonOf extracts the reason code of an engine error, or "" for foreign errors.
func ReasonOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ""
}

// Is reports whether err is an engine error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
