package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/klotho/internal/repository"
	"github.com/MrSnakeDoc/klotho/internal/storage"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad request", err: badRequest{msg: "x"}, want: http.StatusBadRequest},
		{name: "too large", err: &http.MaxBytesError{Limit: 1}, want: http.StatusRequestEntityTooLarge},
		{name: "repository validation", err: fmt.Errorf("create: %w", repository.ErrValidation), want: http.StatusBadRequest},
		{name: "repository not found", err: repository.ErrNotFound, want: http.StatusNotFound},
		{name: "repository other", err: repository.ErrOther, want: http.StatusInternalServerError},
		{name: "storage not found", err: storage.ErrNotFound, want: http.StatusNotFound},
		{name: "storage out of space", err: storage.ErrOutOfSpace, want: http.StatusInsufficientStorage},
		{name: "storage cannot write", err: storage.ErrCannotWrite, want: http.StatusInternalServerError},
		{name: "foreign", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantErr  bool
		wantDesc bool
		since    bool
		until    bool
	}{
		{name: "since only", query: "since=2024-01-01T00:00:00Z", since: true},
		{name: "both desc", query: "since=2024-01-01T00:00:00Z&until=2024-02-01T00:00:00%2B02:00&order=DESC", since: true, until: true, wantDesc: true},
		{name: "none", query: ""},
		{name: "date only", query: "since=2024-01-01", wantErr: true},
		{name: "bad order", query: "until=2024-01-01T00:00:00Z&order=random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := parseRange(httptest.NewRequest(http.MethodGet, "/bookmarks?"+tt.query, nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (rng.Since != nil) != tt.since || (rng.Until != nil) != tt.until || rng.Descending != tt.wantDesc {
				t.Errorf("parseRange() = %+v", rng)
			}
		})
	}
}

func TestParseRangeKeepsOffset(t *testing.T) {
	rng, err := parseRange(httptest.NewRequest(http.MethodGet, "/bookmarks?until=2024-02-01T02:00:00%2B02:00", nil))
	if err != nil {
		t.Fatalf("parseRange() error = %v", err)
	}
	if want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC); !rng.Until.Equal(want) {
		t.Errorf("Until = %v, want %v", rng.Until, want)
	}
}

func TestBookmarkID(t *testing.T) {
	for raw, wantErr := range map[string]bool{"7": false, "0": true, "-1": true, "x": true} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		if _, err := bookmarkID(req); (err != nil) != wantErr {
			t.Errorf("bookmarkID(%q) error = %v, wantErr %v", raw, err, wantErr)
		}
	}
}
