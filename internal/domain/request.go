package domain

import (
	"errors"
	"strings"
)

var (
	// ErrTitleRequired is returned when a request carries an empty title.
	ErrTitleRequired = errors.New("title is required")
	// ErrIDRequired is returned when an update request has no usable id.
	ErrIDRequired = errors.New("no id given for updating bookmark")
)

// CreateRequest stages the values of a bookmark that does not exist yet.
// It has no id: the store assigns one.
type CreateRequest struct {
	Title       string
	URL         *string
	Description *string
}

// NewCreateRequest starts a create request with the required title.
func NewCreateRequest(title string) CreateRequest {
	return CreateRequest{Title: title}
}

// WithURL returns a copy of the request with the URL set.
func (r CreateRequest) WithURL(url string) CreateRequest {
	r.URL = &url
	return r
}

// WithDescription returns a copy of the request with the description set.
func (r CreateRequest) WithDescription(description string) CreateRequest {
	r.Description = &description
	return r
}

// Validate checks caller input before it reaches the store.
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// UpdateRequest overwrites title, url and description of an existing bookmark.
// Absent optional fields are written as NULL.
type UpdateRequest struct {
	ID          int64
	Title       string
	URL         *string
	Description *string
}

// NewUpdateRequest starts an update request for the bookmark with the given id.
func NewUpdateRequest(id int64, title string) UpdateRequest {
	return UpdateRequest{ID: id, Title: title}
}

// UpdateFrom seeds an update request with the current values of b.
func UpdateFrom(b Bookmark) UpdateRequest {
	return UpdateRequest{
		ID:          b.ID,
		Title:       b.Title,
		URL:         b.URL,
		Description: b.Description,
	}
}

// WithTitle returns a copy of the request with the title replaced.
func (r UpdateRequest) WithTitle(title string) UpdateRequest {
	r.Title = title
	return r
}

// WithURL returns a copy of the request with the URL set.
func (r UpdateRequest) WithURL(url string) UpdateRequest {
	r.URL = &url
	return r
}

// WithDescription returns a copy of the request with the description set.
func (r UpdateRequest) WithDescription(description string) UpdateRequest {
	r.Description = &description
	return r
}

func (r UpdateRequest) Validate() error {
	if r.ID <= 0 {
		return ErrIDRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}
