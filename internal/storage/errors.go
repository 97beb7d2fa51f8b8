package storage

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure independently of its cause.
// More kinds may be added later; switches over Kind should keep a default branch.
type Kind int

const (
	// KindOther is an uncategorized failure.
	KindOther Kind = iota
	// KindInvalidConfiguration means the backend could not be set up.
	KindInvalidConfiguration
	// KindOutOfSpace means the backend ran out of room.
	KindOutOfSpace
	// KindCannotWrite covers write and delete failures and malformed keys.
	KindCannotWrite
	// KindNotFound means no blob exists for the key.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "Invalid storage configuration"
	case KindOutOfSpace:
		return "Storage is out of space"
	case KindCannotWrite:
		return "Failed to write to storage"
	case KindNotFound:
		return "File not found"
	case KindOther:
		return "Other storage error"
	default:
		return "Unknown storage error"
	}
}

// Error is a kind tag plus an optional cause.
type Error struct {
	Kind Kind
	Err  error
}

// Sentinels usable with errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
	ErrOutOfSpace           = &Error{Kind: KindOutOfSpace}
	ErrCannotWrite          = &Error{Kind: KindCannotWrite}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrOther                = &Error{Kind: KindOther}
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

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// KindOf extracts the kind from err, KindOther for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}
