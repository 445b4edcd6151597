// Package errors provides error handling for legostore.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check error kinds
//	if errors.Is(err, errors.ErrNameCollision) {
//	    // handle duplicate group name
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Sentinel errors for the store's error taxonomy. Business-rule violations
// are distinct kinds so callers can branch with errors.Is instead of
// matching message text.
var (
	// ErrWriteFailure indicates a transactional write failed. Every write
	// failure wraps its underlying cause; business-rule failures below also
	// wrap ErrWriteFailure so a single Is check covers the whole family.
	ErrWriteFailure = New("write failure")

	// ErrNameCollision indicates a LegoList group name is already in use.
	ErrNameCollision = New("lego list name already in use")

	// ErrDuplicateImport indicates an import would overwrite an existing
	// list or Lego version.
	ErrDuplicateImport = New("import collides with existing records")

	// ErrMissingList indicates the target LegoList does not exist.
	ErrMissingList = New("lego list does not exist")

	// ErrNotFound indicates the requested record does not exist. Read paths
	// represent absence as empty results; this sentinel is for callers that
	// require presence.
	ErrNotFound = New("not found")

	// ErrIteratorClosed indicates use of a streaming iterator after Close.
	ErrIteratorClosed = New("iterator is closed")

	// ErrStoreClosed indicates an operation was invoked after Shutdown.
	ErrStoreClosed = New("store is closed")
)

// WriteFailure wraps cause as a write failure, preserving the cause chain.
func WriteFailure(cause error, msg string) error {
	return crdb.Mark(crdb.Wrap(cause, msg), ErrWriteFailure)
}

// WriteFailuref wraps cause as a write failure with a formatted message.
func WriteFailuref(cause error, format string, args ...interface{}) error {
	return crdb.Mark(crdb.Wrapf(cause, format, args...), ErrWriteFailure)
}

// IsWriteFailure reports whether err is any kind of write failure, including
// the business-rule kinds (name collision, duplicate import, missing list).
func IsWriteFailure(err error) bool {
	return Is(err, ErrWriteFailure) ||
		Is(err, ErrNameCollision) ||
		Is(err, ErrDuplicateImport) ||
		Is(err, ErrMissingList)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsStoreClosed reports whether err is or wraps ErrStoreClosed.
func IsStoreClosed(err error) bool {
	return Is(err, ErrStoreClosed)
}

// IsIteratorClosed reports whether err is or wraps ErrIteratorClosed.
func IsIteratorClosed(err error) bool {
	return Is(err, ErrIteratorClosed)
}
