package secure

import (
	"errors"
	"fmt"
	"strings"
)

// AuthenticationError means the actor has no valid session.
type AuthenticationError struct {
	ActorID string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("secure: no valid session for actor %q, please sign in again", e.ActorID)
}

// PermissionError means the actor lacks the capability an operation requires.
type PermissionError struct {
	ActorID    string
	Capability string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("secure: actor %q lacks capability %q", e.ActorID, e.Capability)
}

// ValidationError names the fields that caused an operation to be rejected.
// No partial writes: a single bad field rejects the whole operation.
type ValidationError struct {
	Table          string
	RejectedFields []string
	Reason         string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("secure: invalid fields for %s: %s (%s)",
		e.Table, strings.Join(e.RejectedFields, ", "), e.Reason)
}

// DuplicateError marks a certificate insert that collides with an existing
// record on both number and expiry date.
type DuplicateError struct {
	CertificateNumber string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("secure: certificate %q already registered with the same expiry date", e.CertificateNumber)
}

// NotFoundError means the operation targeted an entity that does not exist.
type NotFoundError struct {
	Table    string
	TargetID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("secure: %s %s not found", e.Table, e.TargetID)
}

func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsDuplicateError(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}

func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
