package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// handleEntryWatch streams the live entry query over server-sent
// events. Every store change produces one "snapshot" event carrying
// the full re-sorted listing; the first event arrives immediately.
func (s *Server) handleEntryWatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	order, dir, err := parseOrdering(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}
	setEventStreamHeaders(w)

	for entries := range s.entries.Watch(r.Context(), order, dir) {
		if !writeSnapshotEvent(w, r, toEntryList(entries)) {
			return
		}
		flusher.Flush()
	}
}

// handleMoodWatch streams the live mood-color query the same way.
func (s *Server) handleMoodWatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}
	setEventStreamHeaders(w)

	for moods := range s.moods.Watch(r.Context()) {
		if !writeSnapshotEvent(w, r, toMoodColorList(moods)) {
			return
		}
		flusher.Flush()
	}
}

func setEventStreamHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

func writeSnapshotEvent(w http.ResponseWriter, r *http.Request, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal snapshot event", "error", err)
		return false
	}
	if _, err := w.Write([]byte("event: snapshot\ndata: " + string(data) + "\n\n")); err != nil {
		// Client went away; the context cancel tears down the watch.
		return false
	}
	return true
}
