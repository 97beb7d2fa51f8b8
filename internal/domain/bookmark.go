package domain

import "time"

// Bookmark is a persisted record describing a saved URL.
//
// Values are produced by a repository and should be treated as read-only:
// mutations go through UpdateRequest, never by editing a Bookmark in place.
//
// Timestamps are stored with millisecond precision and are always returned
// in UTC. The offset of the clock that produced them is not kept.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on creation and never changes afterward.
	ID int64 `json:"id" yaml:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is required.
	Title string `json:"title" yaml:"title"`

	// URL is optional.
	URL *string `json:"url,omitempty" yaml:"url,omitempty"`

	// Description is optional CommonMark text.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once at insertion.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt equals CreatedAt on insertion and advances on every update.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Range selects bookmarks by their creation time. Both bounds are inclusive.
// At least one bound must be set.
type Range struct {
	Since      *time.Time
	Until      *time.Time
	Descending bool
}

// Unbounded reports whether neither bound is set.
func (r Range) Unbounded() bool {
	return r.Since == nil && r.Until == nil
}
