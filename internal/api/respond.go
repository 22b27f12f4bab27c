package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// List pagination bounds applied by every collection endpoint.
const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// listParams extracts search/limit/offset query parameters with defaults.
func listParams(r *http.Request) (search string, limit, offset int) {
	q := r.URL.Query()
	search = q.Get("search")

	limit = defaultListLimit
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return search, limit, offset
}

// pathID parses the {id} wildcard of the matched route.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
