package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrAuthenticationRequired is returned by user-scoped operations when no
// current user can be resolved from the request context.
var ErrAuthenticationRequired = stderrors.New("authentication required: no current user")

// ValidationFailure reports input rejected before any write reached storage.
type ValidationFailure struct {
	Fields []string
	Reason string
	// Code overrides the API code; ValidationGeneral when empty.
	Code ErrorCode
}

func (e *ValidationFailure) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

// NewValidationFailure builds a ValidationFailure for the given fields
func NewValidationFailure(reason string, fields ...string) *ValidationFailure {
	return &ValidationFailure{Fields: fields, Reason: reason}
}

// NotFoundFailure reports a referenced id that does not exist (or is not visible
// to the current user).
type NotFoundFailure struct {
	Entity string
	ID     string
}

func (e *NotFoundFailure) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NewNotFoundFailure builds a NotFoundFailure for an entity id
func NewNotFoundFailure(entity string, id fmt.Stringer) *NotFoundFailure {
	return &NotFoundFailure{Entity: entity, ID: id.String()}
}

// StorageFailure wraps any lower-level persistence error with the operation
// that produced it. The cause stays reachable through errors.Unwrap.
type StorageFailure struct {
	Op  string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// NewStorageFailure wraps err; it returns nil when err is nil
func NewStorageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageFailure{Op: op, Err: err}
}

// Is and As re-export the standard helpers so callers importing this package
// under its own name do not need a second import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

var notFoundCodes = map[string]ErrorCode{
	"transaction": LedgerTransactionNotFound,
	"category":    LedgerCategoryNotFound,
	"budget":      LedgerBudgetNotFound,
	"user":        LedgerUserNotFound,
}

// CodeFor maps a domain failure to its API error code
func CodeFor(err error) ErrorCode {
	if err == nil {
		return ""
	}

	if Is(err, ErrAuthenticationRequired) {
		return AuthRequired
	}

	var vf *ValidationFailure
	if As(err, &vf) {
		if vf.Code != "" {
			return vf.Code
		}
		return ValidationGeneral
	}

	var nf *NotFoundFailure
	if As(err, &nf) {
		if code, ok := notFoundCodes[nf.Entity]; ok {
			return code
		}
		return LedgerResourceNotFound
	}

	var sf *StorageFailure
	if As(err, &sf) {
		return SystemDatabaseError
	}

	return SystemInternalError
}
