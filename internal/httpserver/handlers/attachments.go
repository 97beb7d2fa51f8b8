package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/klotho/internal/httpserver/deps"
	"github.com/MrSnakeDoc/klotho/internal/logger"
)

type attachmentResponse struct {
	Key  string `json:"key"`
	Size int    `json:"size"`
}

// UploadAttachment stores the raw request body as a new blob.
// The optional ext query parameter is appended to the generated key.
func UploadAttachment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.MaxUploadBytes))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if len(data) == 0 {
			writeError(w, r, d, badRequest{msg: "empty attachment body"})
			return
		}

		key, err := d.Storage.Store(r.Context(), data, r.URL.Query().Get("ext"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		d.Logger.Info("attachment stored",
			logger.String("key", key),
			logger.Int("size", len(data)))
		w.Header().Set("Location", "/attachments/"+key)
		writeJSON(w, http.StatusCreated, attachmentResponse{Key: key, Size: len(data)})
	}
}

func DownloadAttachment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		data, err := d.Storage.Load(r.Context(), key)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		ctype := mime.TypeByExtension(filepath.Ext(key))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ctype)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

func RemoveAttachment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if err := d.Storage.Remove(r.Context(), key); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("attachment removed", logger.String("key", key))
		w.WriteHeader(http.StatusNoContent)
	}
}
