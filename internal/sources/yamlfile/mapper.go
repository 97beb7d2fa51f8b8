package yamlfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/klotho/internal/domain"
)

// ToCreateRequests converts a document to create requests, in file order.
// Entries without a title are rejected all at once, with their positions.
func ToCreateRequests(doc Document) ([]domain.CreateRequest, error) {
	reqs := make([]domain.CreateRequest, 0, len(doc))
	var errs []error

	for i, e := range doc {
		req := domain.NewCreateRequest(strings.TrimSpace(e.Title))
		if u := strings.TrimSpace(e.URL); u != "" {
			req = req.WithURL(u)
		}
		if d := strings.TrimSpace(e.Description); d != "" {
			req = req.WithDescription(d)
		}
		if err := req.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		reqs = append(reqs, req)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reqs, nil
}

// FromBookmarks converts stored bookmarks to a document.
func FromBookmarks(bookmarks []domain.Bookmark) Document {
	doc := make(Document, 0, len(bookmarks))
	for _, b := range bookmarks {
		created, updated := b.CreatedAt, b.UpdatedAt
		e := Entry{
			ID:        b.ID,
			Title:     b.Title,
			CreatedAt: &created,
			UpdatedAt: &updated,
		}
		if b.URL != nil {
			e.URL = *b.URL
		}
		if b.Description != nil {
			e.Description = *b.Description
		}
		doc = append(doc, e)
	}
	return doc
}
