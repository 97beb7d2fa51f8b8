package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/klotho/internal/httpserver/deps"
	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/repository"
	"github.com/MrSnakeDoc/klotho/internal/storage"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// badRequest marks input the handler itself rejected before calling a store.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error returned by a handler's dependencies to an HTTP status.
func statusFor(err error) int {
	var br badRequest
	var tooLarge *http.MaxBytesError
	var repoErr *repository.Error
	var storeErr *storage.Error

	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &repoErr):
		switch repoErr.Kind {
		case repository.KindValidation:
			return http.StatusBadRequest
		case repository.KindNotFound:
			return http.StatusNotFound
		default:
			return http.StatusInternalServerError
		}
	case errors.As(err, &storeErr):
		switch {
		case storeErr.Kind == storage.KindNotFound:
			return http.StatusNotFound
		case errors.Is(err, storage.ErrMalformedKey), errors.Is(err, storage.ErrMalformedExtension):
			return http.StatusBadRequest
		case storeErr.Kind == storage.KindOutOfSpace:
			return http.StatusInsufficientStorage
		default:
			return http.StatusInternalServerError
		}
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	status := statusFor(err)
	reqID := middleware.GetReqID(r.Context())

	if status >= http.StatusInternalServerError {
		d.Logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", reqID),
			logger.Error(err))
	} else {
		d.Logger.Debug("request rejected",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: reqID})
}
