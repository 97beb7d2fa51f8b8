package mw

import (
	"net/http"
	"strconv"
)

// deny answers with status and a JSON error body shaped like the handlers' errors.
func deny(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + strconv.Quote(http.StatusText(status)) + "}\n"))
}
