package repository

import (
	"errors"
	"fmt"
)

// Kind classifies a repository failure independently of its cause.
// More kinds may be added later; switches over Kind should keep a default branch.
type Kind int

const (
	// KindOther wraps an unclassified store failure. It may be transient.
	KindOther Kind = iota
	// KindValidation means the caller sent bad input. Never retried.
	KindValidation
	// KindNotFound means no row matched.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Validation error"
	case KindNotFound:
		return "Bookmark not found"
	case KindOther:
		return "Other storage error"
	default:
		return "Unknown database error"
	}
}

// Error is a kind tag plus an optional cause.
type Error struct {
	Kind Kind
	Err  error
}

// Sentinels usable with errors.Is. They match any *Error of the same kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrOther      = &Error{Kind: KindOther}
)

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// KindOf extracts the kind from err. Errors that did not come from this
// package report KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}
