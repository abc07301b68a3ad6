// Package cperr provides the structured error type used throughout the
// supply chain: a stable errorkind.Kind plus a human-readable message and an
// optional wrapped cause.
package cperr

import (
	"fmt"

	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

// Error is the error type returned by every supply-chain operation that can
// fail. Kind is stable and meant for programmatic matching; Message is for
// humans and may embed the cause's text.
type Error struct {
	Kind    errorkind.Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with no wrapped cause.
func New(kind errorkind.Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error carrying cause as context. If cause is already a
// *Error, its kind is not overridden implicitly — callers that want to
// reclassify should build a fresh Error explicitly.
func Wrap(kind errorkind.Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the errorkind.Kind from err, defaulting to
// UnexpectedResponseType when err is not a *Error. This is the fallback used
// by collaborators that must always classify an error, even one that
// originated outside the supply chain.
func KindOf(err error) errorkind.Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return errorkind.UnexpectedResponseType
}

// As finds the first *Error in err's chain, like errors.As specialised for
// *Error, kept local so callers don't need to import both packages for the
// common case. It follows single Unwrap() error links only; errors joined
// with Unwrap() []error are not searched.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
