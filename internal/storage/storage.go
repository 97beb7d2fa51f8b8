// Package storage persists opaque binary blobs behind a pluggable backend.
//
// Keys returned by Store are capability tokens: anyone holding a key can
// resolve, read or remove the blob. There is no ownership model.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Storage is implemented by every blob backend.
type Storage interface {
	// Store writes data as a new blob and returns its key: a UUID v4, followed
	// by ext verbatim when ext is not empty.
	Store(ctx context.Context, data []byte, ext string) (string, error)

	// Path returns a fully qualified locator for the blob behind key.
	Path(ctx context.Context, key string) (string, error)

	// Load returns the full contents of the blob.
	Load(ctx context.Context, key string) ([]byte, error)

	// Remove deletes the blob.
	Remove(ctx context.Context, key string) error
}

var (
	ErrMalformedKey       = errors.New("malformed storage key")
	ErrMalformedExtension = errors.New("extension must not contain path separators")
)

// newKey generates a fresh opaque key. Collisions are not checked.
func newKey(ext string) (string, error) {
	if strings.ContainsAny(ext, `/\`) {
		return "", newError(KindCannotWrite, ErrMalformedExtension)
	}
	return uuid.NewString() + ext, nil
}

// sanitizeKey strips key down to its final path segment so it can never
// escape the backend's namespace.
func sanitizeKey(key string) (string, error) {
	// backslashes are treated as separators on every platform
	name := path.Base(strings.ReplaceAll(key, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", newError(KindCannotWrite, ErrMalformedKey)
	}
	return name, nil
}
