// Package memory is the in-process backup backend, used in tests
// and when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"umore/internal/core"
	"umore/internal/export"
)

var (
	_ export.EntryAppender = (*Store)(nil)
	_ export.EntryRemover  = (*Store)(nil)
)

type Store struct {
	mu    sync.Mutex
	rows  map[string]core.EntryWithMoodColor // keyed by day
	count int
}

func New() *Store {
	return &Store{rows: make(map[string]core.EntryWithMoodColor)}
}

// Append stores the entry under its day key and returns a synthetic
// row reference. Appending the same day again overwrites, which
// matches how re-synced entries behave.
func (s *Store) Append(_ context.Context, e core.EntryWithMoodColor) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[core.DayKey(e.DateStamp)] = e
	s.count++
	return fmt.Sprintf("mem:%d", s.count), nil
}

// Remove drops the row for a day. Removing an absent day is not an
// error: delete events may arrive for entries that never synced.
func (s *Store) Remove(_ context.Context, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, day)
	return nil
}

// Get returns the stored row for a day, for inspection in tests.
func (s *Store) Get(day string) (core.EntryWithMoodColor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[day]
	return e, ok
}

// Len reports the number of stored rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
