package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"umore/internal/core"
)

type totalStatsJSON struct {
	FirstEntryDate         string  `json:"firstEntryDate"` // "", or YYYY-MM-DD
	AverageEntriesPerMonth float64 `json:"averageEntriesPerMonth"`
}

type moodCountJSON struct {
	Mood  string `json:"mood"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type monthlyCountJSON struct {
	Year           int `json:"year"`
	Month          int `json:"month"`
	Count          int `json:"count"`
	CompletionRate int `json:"completionRate"`
}

func (s *Server) handleStatsTotal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.serveCachedStats(w, r, "total", func(entries []core.EntryWithMoodColor, _ int) any {
		stats := core.ComputeTotalStats(entries, time.Now())
		out := totalStatsJSON{AverageEntriesPerMonth: stats.AverageEntriesPerMonth}
		if !stats.FirstEntryDate.IsZero() {
			out.FirstEntryDate = stats.FirstEntryDate.Format("2006-01-02")
		}
		return out
	})
}

func (s *Server) handleStatsMoods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.serveCachedStats(w, r, "moods", func(entries []core.EntryWithMoodColor, limit int) any {
		groups := core.MoodDistribution(entries, limit)
		out := make([]moodCountJSON, 0, len(groups))
		for _, g := range groups {
			out = append(out, moodCountJSON{Mood: g.MoodName, Color: g.Color, Count: g.Count})
		}
		return out
	})
}

func (s *Server) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.serveCachedStats(w, r, "monthly", func(entries []core.EntryWithMoodColor, limit int) any {
		months := core.MonthlyBreakdown(entries, limit)
		out := make([]monthlyCountJSON, 0, len(months))
		for _, m := range months {
			out = append(out, monthlyCountJSON{
				Year: m.Year, Month: m.Month, Count: m.Count, CompletionRate: m.CompletionRate,
			})
		}
		return out
	})
}

// serveCachedStats answers from the stats cache when possible,
// otherwise computes over a fresh snapshot and caches the marshaled
// body. The cache is flushed on every store change, so hits are
// always consistent with the journal.
func (s *Server) serveCachedStats(w http.ResponseWriter, r *http.Request, kind string, compute func([]core.EntryWithMoodColor, int) any) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	key := kind + ":" + strconv.Itoa(limit)
	if body, found := s.statsCache.Get(key); found {
		slog.DebugContext(r.Context(), "Stats cache hit", "kind", kind, "limit", limit)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(body)
		return
	}

	entries, err := s.entries.List(r.Context(), core.OrderByDate, core.Ascending)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	body, err := json.Marshal(compute(entries, limit))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	body = append(body, '\n')
	s.statsCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}
