package http

import (
	"net/http"
	"time"

	"umore/internal/core"
)

type entryJSON struct {
	ID          int64  `json:"id"`
	MoodColorID int64  `json:"moodColorId"`
	Content     string `json:"content"`
	DateStamp   int64  `json:"dateStamp"`
}

type entryWithMoodJSON struct {
	entryJSON
	Mood        string `json:"mood"`
	Color       string `json:"color"`
	MoodDeleted bool   `json:"moodDeleted"`
}

func toEntryJSON(e core.Entry) entryJSON {
	return entryJSON{ID: e.ID, MoodColorID: e.MoodColorID, Content: e.Content, DateStamp: e.DateStamp}
}

func toEntryList(entries []core.EntryWithMoodColor) []entryWithMoodJSON {
	out := make([]entryWithMoodJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryWithMoodJSON{
			entryJSON:   toEntryJSON(e.Entry),
			Mood:        e.MoodName,
			Color:       e.MoodColor,
			MoodDeleted: e.MoodDeleted,
		})
	}
	return out
}

// handleEntries lists the entry/mood join or saves an entry. A zero
// id creates, a positive id updates. A missing dateStamp defaults to
// the current time.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		order, dir, err := parseOrdering(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		entries, err := s.entries.List(r.Context(), order, dir)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toEntryList(entries))

	case http.MethodPost:
		var req entryJSON
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		if req.DateStamp == 0 {
			req.DateStamp = time.Now().Unix()
		}
		id, err := s.entries.Save(r.Context(), core.Entry{
			ID:          req.ID,
			MoodColorID: req.MoodColorID,
			Content:     req.Content,
			DateStamp:   req.DateStamp,
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		status := http.StatusCreated
		if req.ID > 0 {
			status = http.StatusOK
		}
		writeJSON(w, status, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEntryDelete removes an entry and parks it in the undo slot.
// Only the most recent deletion is restorable; deleting again
// replaces the slot.
func (s *Server) handleEntryDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	removed, err := s.entries.Delete(r.Context(), req.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.undoMu.Lock()
	s.lastDeleted = &removed
	s.undoMu.Unlock()

	writeJSON(w, http.StatusOK, toEntryJSON(removed))
}

// handleEntryRestore re-inserts the last deleted entry. The slot is
// cleared only on success, so a failed restore (the date got occupied
// meanwhile) can be retried after resolving the conflict.
func (s *Server) handleEntryRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.undoMu.Lock()
	candidate := s.lastDeleted
	s.undoMu.Unlock()

	if candidate == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "nothing to restore"})
		return
	}

	id, err := s.entries.Restore(r.Context(), *candidate)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.undoMu.Lock()
	if s.lastDeleted == candidate {
		s.lastDeleted = nil
	}
	s.undoMu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}
