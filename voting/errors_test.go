// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil", nil, CategoryUnknown},
		{"not found", newError(ErrNotFound, "agenda x not found"), CategoryNotFound},
		{"required field", newError(ErrRequiredField, "description is required"), CategoryValidation},
		{"invalid status", newError(ErrInvalidStatus, "bad"), CategoryValidation},
		{"invalid vote", newError(ErrInvalidVote, "bad"), CategoryValidation},
		{"invalid duration", newError(ErrInvalidDuration, "bad"), CategoryValidation},
		{"already closed", newError(ErrAlreadyClosed, "x"), CategoryConflict},
		{"agenda closed", newError(ErrAgendaClosed, "x"), CategoryConflict},
		{"session open", newError(ErrSessionAlreadyOpen, "x"), CategoryConflict},
		{"no open session", newError(ErrNoOpenSession, "x"), CategoryConflict},
		{"duplicate vote", newError(ErrDuplicateVote, "x"), CategoryConflict},
		{"ineligible", newError(ErrIneligibleMember, "x"), CategoryEligibility},
		{"invalid credential", newError(ErrInvalidCredential, "x"), CategoryEligibility},
		{"verifier unavailable", fmt.Errorf("%w: %w", ErrVerifierUnavailable, errors.New("timeout")), CategoryInfrastructure},
		{"wrapped domain error", fmt.Errorf("handler: %w", newError(ErrDuplicateVote, "x")), CategoryConflict},
		{"store failure", fmt.Errorf("save session: %w", errors.New("disk full")), CategoryUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestError_MessageAndKind(t *testing.T) {
	err := newError(ErrDuplicateVote, "member %s already voted", "m1")

	if err.Error() != "member m1 already voted" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrDuplicateVote) {
		t.Error("Expected errors.Is to match the kind")
	}
	if errors.Is(err, ErrInvalidVote) {
		t.Error("Expected errors.Is not to match another kind")
	}

	var domainErr *Error
	if !errors.As(err, &domainErr) || domainErr.Kind != ErrDuplicateVote {
		t.Error("Expected errors.As to expose the kind")
	}
}

func TestCategory_String(t *testing.T) {
	if CategoryConflict.String() != "state_conflict" {
		t.Errorf("Unexpected %q", CategoryConflict.String())
	}
	if Category(99).String() != "unknown" {
		t.Errorf("Unexpected %q", Category(99).String())
	}
}
