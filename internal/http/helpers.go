package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"umore/internal/core"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON marshals v and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeDomainError maps domain errors onto HTTP statuses. Anything
// not recognised as a domain failure is reported as a 500 without
// leaking internals.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, core.ErrDuplicateMood), errors.Is(err, core.ErrDuplicateEntryDate):
		status = http.StatusConflict
	case errors.Is(err, core.ErrMoodColorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidMoodColor), errors.Is(err, core.ErrInvalidEntry):
		status = http.StatusUnprocessableEntity
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// decodeBody parses a JSON request body into dst with unknown fields
// rejected.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseLimit reads a non-negative limit query parameter, 0 meaning
// unbounded.
func parseLimit(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return n, nil
}

// parseOrdering reads the order/dir query parameters, defaulting to
// date descending (newest first).
func parseOrdering(r *http.Request) (core.EntryOrder, core.Direction, error) {
	order := core.OrderByDate
	dir := core.Descending

	switch v := strings.TrimSpace(r.URL.Query().Get("order")); v {
	case "", string(core.OrderByDate):
	case string(core.OrderByMood):
		order = core.OrderByMood
	default:
		return "", "", fmt.Errorf("invalid order %q", v)
	}
	switch v := strings.TrimSpace(r.URL.Query().Get("dir")); v {
	case "", string(core.Descending):
	case string(core.Ascending):
		dir = core.Ascending
	default:
		return "", "", fmt.Errorf("invalid dir %q", v)
	}
	return order, dir, nil
}

// clientIP extracts the client address, honouring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
