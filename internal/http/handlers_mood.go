package http

import (
	"net/http"
	"time"

	"umore/internal/core"
)

type moodColorJSON struct {
	ID        int64  `json:"id"`
	Mood      string `json:"mood"`
	Color     string `json:"color"`
	DateStamp int64  `json:"dateStamp"`
}

func toMoodColorJSON(m core.MoodColor) moodColorJSON {
	return moodColorJSON{ID: m.ID, Mood: m.Mood, Color: m.Color, DateStamp: m.DateStamp}
}

func toMoodColorList(moods []core.MoodColor) []moodColorJSON {
	out := make([]moodColorJSON, 0, len(moods))
	for _, m := range moods {
		out = append(out, toMoodColorJSON(m))
	}
	return out
}

// handleMoods lists active mood colors or creates a new one. Creating
// with the name of a previously deleted mood revives that mood under
// its old identity.
func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		moods, err := s.moods.List(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toMoodColorList(moods))

	case http.MethodPost:
		var req struct {
			Mood  string `json:"mood"`
			Color string `json:"color"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		id, err := s.moods.Save(r.Context(), core.MoodColor{
			Mood:      req.Mood,
			Color:     req.Color,
			DateStamp: time.Now().Unix(),
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMoodRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ID   int64  `json:"id"`
		Mood string `json:"mood"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if err := s.moods.Rename(r.Context(), req.ID, req.Mood); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoodRecolor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ID    int64  `json:"id"`
		Color string `json:"color"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if err := s.moods.Recolor(r.Context(), req.ID, req.Color); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMoodDelete soft-deletes a mood color. Entries referencing it
// keep rendering with its last name and color.
func (s *Server) handleMoodDelete(w http.ResponseWriter, r *http.Request) {
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
	if err := s.moods.SoftDelete(r.Context(), req.ID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
