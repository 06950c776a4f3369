package services

import (
	"context"
	"fmt"
	"log/slog"

	"umore/internal/core"
)

// EntryService manages the journal entry lifecycle: validated
// create/update, hard delete with caller-held undo, and ordered
// live queries over the entry/mood join.
type EntryService struct {
	store  EntryStore
	moods  MoodColorStore
	events EventPublisher
}

// NewEntryService wires the entry store, the mood-color store used
// for reference checks, and an optional event publisher (nil when
// the message queue is not configured).
func NewEntryService(store EntryStore, moods MoodColorStore, events EventPublisher) *EntryService {
	return &EntryService{store: store, moods: moods, events: events}
}

// Save inserts a new entry (zero id) or updates an existing one.
// The mood-color reference must resolve to a row, deleted or not;
// a dangling reference is the one hard referential check.
func (s *EntryService) Save(ctx context.Context, e core.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	mood, err := s.moods.GetMoodColorByID(ctx, e.MoodColorID)
	if err != nil {
		return 0, fmt.Errorf("look up mood color %d: %w", e.MoodColorID, err)
	}
	if mood == nil {
		return 0, core.ErrMoodColorMissing
	}

	occupant, err := s.store.GetEntryByDate(ctx, core.DayKey(e.DateStamp))
	if err != nil {
		return 0, fmt.Errorf("look up entry by date: %w", err)
	}
	if occupant != nil && occupant.ID != e.ID {
		return 0, core.ErrDuplicateEntryDate
	}

	if e.ID > 0 {
		if err := s.store.UpdateEntry(ctx, e); err != nil {
			return 0, fmt.Errorf("update entry %d: %w", e.ID, err)
		}
		s.publishSync(ctx, e.ID)
		return e.ID, nil
	}

	id, err := s.store.InsertEntry(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	s.publishSync(ctx, id)
	return id, nil
}

// Delete removes the entry and returns the removed value: the
// caller owns the single-slot undo state and passes it back to
// Restore.
func (s *EntryService) Delete(ctx context.Context, id int64) (core.Entry, error) {
	entry, err := s.store.GetEntryByID(ctx, id)
	if err != nil {
		return core.Entry{}, fmt.Errorf("look up entry %d: %w", id, err)
	}
	if entry == nil {
		return core.Entry{}, fmt.Errorf("%w: no entry with id %d", core.ErrInvalidEntry, id)
	}

	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return core.Entry{}, fmt.Errorf("delete entry %d: %w", id, err)
	}

	if s.events != nil {
		if err := s.events.PublishEntryDelete(ctx, id, core.DayKey(entry.DateStamp)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry delete event",
				"id", id, "error", err)
		}
	}
	return *entry, nil
}

// Restore re-inserts a previously deleted entry. The original id is
// preserved when present; when the store cannot honour it the entry
// simply gets a fresh identity.
func (s *EntryService) Restore(ctx context.Context, e core.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	occupant, err := s.store.GetEntryByDate(ctx, core.DayKey(e.DateStamp))
	if err != nil {
		return 0, fmt.Errorf("look up entry by date: %w", err)
	}
	if occupant != nil {
		return 0, core.ErrDuplicateEntryDate
	}

	id, err := s.store.InsertEntry(ctx, e)
	if err != nil && e.ID > 0 {
		// The original identity may have been reused meanwhile.
		e.ID = 0
		id, err = s.store.InsertEntry(ctx, e)
	}
	if err != nil {
		return 0, fmt.Errorf("restore entry: %w", err)
	}
	s.publishSync(ctx, id)
	return id, nil
}

// List returns one ordered snapshot of the entry/mood join.
func (s *EntryService) List(ctx context.Context, order core.EntryOrder, dir core.Direction) ([]core.EntryWithMoodColor, error) {
	entries, err := s.store.ListEntriesWithMood(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	core.SortEntries(entries, order, dir)
	return entries, nil
}

// Watch emits a full ordered snapshot on every underlying change
// until the context is cancelled. Each emission is finite and
// freshly sorted; the ordering is re-derived per snapshot because
// mood renames can reorder entries without touching entry rows.
func (s *EntryService) Watch(ctx context.Context, order core.EntryOrder, dir core.Direction) <-chan []core.EntryWithMoodColor {
	out := make(chan []core.EntryWithMoodColor)
	sub := s.store.Changes().Subscribe()

	go func() {
		defer close(out)
		defer sub.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Changes():
				if !ok {
					return
				}
				entries, err := s.store.ListEntriesWithMood(ctx)
				if err != nil {
					slog.ErrorContext(ctx, "Live entry query failed", "error", err)
					continue
				}
				core.SortEntries(entries, order, dir)
				select {
				case out <- entries:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (s *EntryService) publishSync(ctx context.Context, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEntrySync(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry sync event",
			"id", id, "error", err)
		// The entry is saved locally; the queue catches up later.
	}
}
