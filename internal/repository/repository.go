package repository

import (
	"context"

	"github.com/MrSnakeDoc/klotho/internal/domain"
)

// BookmarkRepository persists bookmarks in a relational store.
//
// Every operation is a single round trip; concurrent writers on the same id
// race and the last one to complete wins.
type BookmarkRepository interface {
	// Fetch returns the bookmark with id, or an ErrNotFound error.
	Fetch(ctx context.Context, id int64) (domain.Bookmark, error)
	// FetchRange returns bookmarks whose created_at falls within r.
	// An unbounded range is rejected with ErrValidation.
	FetchRange(ctx context.Context, r domain.Range) ([]domain.Bookmark, error)
	// Create inserts a new bookmark with created_at = updated_at = now.
	Create(ctx context.Context, req domain.CreateRequest) (domain.Bookmark, error)
	// Update overwrites content and updated_at, leaving id and created_at alone.
	Update(ctx context.Context, req domain.UpdateRequest) (domain.Bookmark, error)
	// Delete removes the bookmark and returns it as it was just before removal.
	Delete(ctx context.Context, id int64) (domain.Bookmark, error)
	// Ping checks the underlying connection.
	Ping(ctx context.Context) error
}
