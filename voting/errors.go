// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; the concrete error carries a
// human-readable message.
var (
	ErrNotFound = errors.New("not found")

	ErrRequiredField   = errors.New("required field")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidVote     = errors.New("invalid vote")
	ErrInvalidDuration = errors.New("invalid duration")

	ErrAlreadyClosed      = errors.New("agenda already closed")
	ErrAgendaClosed       = errors.New("agenda is closed")
	ErrSessionAlreadyOpen = errors.New("session already open")
	ErrNoOpenSession      = errors.New("no open session")
	ErrDuplicateVote      = errors.New("duplicate vote")

	ErrIneligibleMember  = errors.New("ineligible member")
	ErrInvalidCredential = errors.New("invalid credential")

	ErrVerifierUnavailable = errors.New("eligibility verifier unavailable")
)

// ErrCredentialNotFound is returned by a Verifier that does not know the
// credential at all. It is turned into ErrInvalidCredential.
var ErrCredentialNotFound = errors.New("credential not found")

// Error is a domain failure of a given kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Category groups error kinds by how a caller should react to them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryValidation
	CategoryConflict
	CategoryEligibility
	CategoryInfrastructure
)

func (c Category) String() string {
	switch c {
	case CategoryNotFound:
		return "not_found"
	case CategoryValidation:
		return "validation"
	case CategoryConflict:
		return "state_conflict"
	case CategoryEligibility:
		return "eligibility_rejection"
	case CategoryInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

var categories = []struct {
	kind     error
	category Category
}{
	{ErrNotFound, CategoryNotFound},
	{ErrRequiredField, CategoryValidation},
	{ErrInvalidStatus, CategoryValidation},
	{ErrInvalidVote, CategoryValidation},
	{ErrInvalidDuration, CategoryValidation},
	{ErrAlreadyClosed, CategoryConflict},
	{ErrAgendaClosed, CategoryConflict},
	{ErrSessionAlreadyOpen, CategoryConflict},
	{ErrNoOpenSession, CategoryConflict},
	{ErrDuplicateVote, CategoryConflict},
	{ErrIneligibleMember, CategoryEligibility},
	{ErrInvalidCredential, CategoryEligibility},
	{ErrVerifierUnavailable, CategoryInfrastructure},
}

// Classify returns the category of err. Store failures and anything else
// not produced by this package are CategoryUnknown.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	for _, c := range categories {
		if errors.Is(err, c.kind) {
			return c.category
		}
	}
	return CategoryUnknown
}
