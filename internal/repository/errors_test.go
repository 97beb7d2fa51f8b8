package repository

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "validation with cause", err: newError(KindValidation, errors.New("unbound range fetch is prohibited")), want: "Validation error: unbound range fetch is prohibited"},
		{name: "not found without cause", err: newError(KindNotFound, nil), want: "Bookmark not found"},
		{name: "other with cause", err: newError(KindOther, errors.New("disk I/O error")), want: "Other storage error: disk I/O error"},
		{name: "unknown kind", err: newError(Kind(99), nil), want: "Unknown database error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("handler: %w", newError(KindOther, cause))

	if !errors.Is(err, ErrOther) {
		t.Error("errors.Is(err, ErrOther) = false, want true")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true, want false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
	if KindOf(err) != KindOther {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindOther)
	}
	if KindOf(errors.New("plain")) != KindOther {
		t.Error("foreign errors should classify as KindOther")
	}
}
