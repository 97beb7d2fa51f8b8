package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/klotho/internal/domain"
	"github.com/MrSnakeDoc/klotho/internal/httpserver/deps"
	"github.com/MrSnakeDoc/klotho/internal/logger"
)

// maxBookmarkBody bounds JSON bodies of create and update requests.
const maxBookmarkBody = 64 << 10

type bookmarkPayload struct {
	Title       string  `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
}

func decodePayload(w http.ResponseWriter, r *http.Request) (bookmarkPayload, error) {
	var p bookmarkPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBookmarkBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return p, err
		}
		return p, badRequest{msg: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return p, nil
}

func bookmarkID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest{msg: fmt.Sprintf("invalid bookmark id %q", raw)}
	}
	return id, nil
}

// parseRange reads since, until and order from the query string.
// Bounds are RFC3339 timestamps.
func parseRange(r *http.Request) (domain.Range, error) {
	var rng domain.Range
	q := r.URL.Query()

	for _, b := range []struct {
		name string
		dst  **time.Time
	}{
		{"since", &rng.Since},
		{"until", &rng.Until},
	} {
		raw := strings.TrimSpace(q.Get(b.name))
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return rng, badRequest{msg: fmt.Sprintf("%s: expected an RFC3339 timestamp, got %q", b.name, raw)}
		}
		*b.dst = &t
	}

	switch strings.ToLower(q.Get("order")) {
	case "", "asc":
	case "desc":
		rng.Descending = true
	default:
		return rng, badRequest{msg: fmt.Sprintf("order: expected asc or desc, got %q", q.Get("order"))}
	}
	return rng, nil
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		b, err := d.Repository.Fetch(r.Context(), id)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := parseRange(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		list, err := d.Repository.FetchRange(r.Context(), rng)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if list == nil {
			list = []domain.Bookmark{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decodePayload(w, r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		req := domain.CreateRequest{Title: p.Title, URL: p.URL, Description: p.Description}
		b, err := d.Repository.Create(r.Context(), req)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("bookmark created", logger.Int64("id", b.ID))
		w.Header().Set("Location", fmt.Sprintf("/bookmarks/%d", b.ID))
		writeJSON(w, http.StatusCreated, b)
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		p, err := decodePayload(w, r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		req := domain.UpdateRequest{ID: id, Title: p.Title, URL: p.URL, Description: p.Description}
		b, err := d.Repository.Update(r.Context(), req)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("bookmark updated", logger.Int64("id", b.ID))
		writeJSON(w, http.StatusOK, b)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		b, err := d.Repository.Delete(r.Context(), id)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("bookmark deleted", logger.Int64("id", b.ID))
		writeJSON(w, http.StatusOK, b)
	}
}
