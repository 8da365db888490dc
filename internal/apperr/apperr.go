// Package apperr defines the typed errors shared by the service and API
// layers. Every caller-visible failure carries a Kind so the transport
// layer can map it to a status code without string matching, and integrity
// failures are never collapsed into a generic error.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind discriminates the failure classes.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindDuplicate  Kind = "DUPLICATE_CODE"
	KindIntegrity  Kind = "INTEGRITY_VIOLATION"
	KindImbalance  Kind = "IMBALANCE"
	KindConflict   Kind = "CONFLICT"
	KindStorage    Kind = "STORAGE_ERROR"
)

// Error is a tagged application error. Field names the offending request
// field for validation errors; Discrepancy carries the imbalance amount
// for integrity failures at report time.
type Error struct {
	Kind        Kind
	Field       string
	Message     string
	Discrepancy decimal.Decimal
	Err         error // wrapped cause, set for storage errors
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports a bad input value on a named field.
func Validation(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent record or one not owned by the caller.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Duplicate reports an account code collision within one owner.
func Duplicate(code string) *Error {
	return &Error{Kind: KindDuplicate, Field: "code", Message: fmt.Sprintf("account code %q already exists", code)}
}

// Integrity reports a structural rule violation such as deleting an
// account that still has postings or posting an unbalanced journal entry.
func Integrity(format string, args ...interface{}) *Error {
	return &Error{Kind: KindIntegrity, Message: fmt.Sprintf(format, args...)}
}

// Imbalance reports a failed report-time balance check together with the
// discrepancy amount. Reports must never be returned silently wrong.
func Imbalance(discrepancy decimal.Decimal, format string, args ...interface{}) *Error {
	return &Error{
		Kind:        KindImbalance,
		Message:     fmt.Sprintf(format, args...),
		Discrepancy: discrepancy,
	}
}

// Conflict reports a lost race against a concurrent structural change.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an unexpected storage failure with context for the logs.
func Storage(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, or KindStorage when err is not an
// application error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// As unwraps err into an *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
