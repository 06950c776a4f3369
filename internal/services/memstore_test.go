package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"umore/internal/core"
	"umore/internal/live"
)

// memStore is the in-memory stand-in for the SQLite repository used
// by the service tests. It honours the same contracts: point lookups
// return (nil, nil) when absent, inserts enforce the mood reference
// and the one-entry-per-day rule, writes signal the hub.
type memStore struct {
	mu        sync.Mutex
	hub       *live.Hub
	moods     map[int64]core.MoodColor
	entries   map[int64]core.Entry
	nextMood  int64
	nextEntry int64
}

func newMemStore() *memStore {
	return &memStore{
		hub:       live.NewHub(),
		moods:     make(map[int64]core.MoodColor),
		entries:   make(map[int64]core.Entry),
		nextMood:  1,
		nextEntry: 1,
	}
}

func (s *memStore) Changes() *live.Hub { return s.hub }

func (s *memStore) InsertMoodColor(_ context.Context, m core.MoodColor) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextMood
	s.nextMood++
	s.moods[m.ID] = m
	s.hub.Notify()
	return m.ID, nil
}

func (s *memStore) UpdateMoodColor(_ context.Context, m core.MoodColor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moods[m.ID]; !ok {
		return fmt.Errorf("no mood color %d", m.ID)
	}
	s.moods[m.ID] = m
	s.hub.Notify()
	return nil
}

func (s *memStore) GetMoodColorByID(_ context.Context, id int64) (*core.MoodColor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.moods[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *memStore) GetMoodColorByName(_ context.Context, name string) (*core.MoodColor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := core.FoldMoodName(name)
	var deleted *core.MoodColor
	for _, id := range s.moodIDs() {
		m := s.moods[id]
		if core.FoldMoodName(m.Mood) != key {
			continue
		}
		if !m.IsDeleted {
			return &m, nil
		}
		if deleted == nil {
			copied := m
			deleted = &copied
		}
	}
	return deleted, nil
}

func (s *memStore) ListActiveMoodColors(_ context.Context) ([]core.MoodColor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.MoodColor
	for _, id := range s.moodIDs() {
		if m := s.moods[id]; !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) InsertEntry(_ context.Context, e core.Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moods[e.MoodColorID]; !ok {
		return 0, fmt.Errorf("foreign key violation: mood color %d", e.MoodColorID)
	}
	day := core.DayKey(e.DateStamp)
	for _, other := range s.entries {
		if core.DayKey(other.DateStamp) == day {
			return 0, fmt.Errorf("unique violation: day %s", day)
		}
	}
	if e.ID > 0 {
		if _, taken := s.entries[e.ID]; taken {
			return 0, fmt.Errorf("unique violation: id %d", e.ID)
		}
		if e.ID >= s.nextEntry {
			s.nextEntry = e.ID + 1
		}
	} else {
		e.ID = s.nextEntry
		s.nextEntry++
	}
	s.entries[e.ID] = e
	s.hub.Notify()
	return e.ID, nil
}

func (s *memStore) UpdateEntry(_ context.Context, e core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return fmt.Errorf("no entry %d", e.ID)
	}
	s.entries[e.ID] = e
	s.hub.Notify()
	return nil
}

func (s *memStore) DeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("no entry %d", id)
	}
	delete(s.entries, id)
	s.hub.Notify()
	return nil
}

func (s *memStore) GetEntryByID(_ context.Context, id int64) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *memStore) GetEntryByDate(_ context.Context, day string) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.entryIDs() {
		if e := s.entries[id]; core.DayKey(e.DateStamp) == day {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListEntriesWithMood(_ context.Context) ([]core.EntryWithMoodColor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.EntryWithMoodColor
	for _, id := range s.entryIDs() {
		e := s.entries[id]
		m := s.moods[e.MoodColorID]
		out = append(out, core.EntryWithMoodColor{
			Entry:       e,
			MoodName:    m.Mood,
			MoodColor:   m.Color,
			MoodDeleted: m.IsDeleted,
		})
	}
	return out, nil
}

func (s *memStore) moodIDs() []int64 {
	ids := make([]int64, 0, len(s.moods))
	for id := range s.moods {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *memStore) entryIDs() []int64 {
	ids := make([]int64, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu      sync.Mutex
	synced  []int64
	deleted []int64
}

func (p *recordingPublisher) PublishEntrySync(_ context.Context, id, _ int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synced = append(p.synced, id)
	return nil
}

func (p *recordingPublisher) PublishEntryDelete(_ context.Context, id int64, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	return nil
}
