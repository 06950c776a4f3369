package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"umore/internal/core"
)

// MoodColorService applies the mood-color lifecycle rules: create or
// restore, rename, recolor and soft delete. All validation happens
// before any mutation, so a failed call is a guaranteed no-op.
type MoodColorService struct {
	store MoodColorStore
}

func NewMoodColorService(store MoodColorStore) *MoodColorService {
	return &MoodColorService{store: store}
}

// Save adds a mood color or restores a soft-deleted one with the
// same name. The candidate's id is ignored. Returns the identity of
// the stored row so the caller can auto-select it.
//
// Three-way branch on the case-insensitive name lookup:
//   - no match: insert, the store assigns an identity;
//   - active match: duplicate, rejected;
//   - deleted match: restore in place, keeping the old identity but
//     taking name casing and color from the input.
func (s *MoodColorService) Save(ctx context.Context, candidate core.MoodColor) (int64, error) {
	m := candidate
	m.ID = 0
	m.IsDeleted = false
	m.Mood = core.SanitizeMoodName(m.Mood)
	if err := m.Validate(); err != nil {
		return 0, err
	}

	existing, err := s.store.GetMoodColorByName(ctx, m.Mood)
	if err != nil {
		return 0, fmt.Errorf("look up mood color by name: %w", err)
	}

	switch {
	case existing == nil:
		id, err := s.store.InsertMoodColor(ctx, m)
		if err != nil {
			return 0, fmt.Errorf("insert mood color: %w", err)
		}
		return id, nil

	case !existing.IsDeleted:
		return 0, core.ErrDuplicateMood

	default:
		restored := *existing
		restored.Mood = m.Mood // rename allowed during restore
		restored.Color = m.Color
		restored.IsDeleted = false
		if err := s.store.UpdateMoodColor(ctx, restored); err != nil {
			return 0, fmt.Errorf("restore mood color %d: %w", restored.ID, err)
		}
		slog.InfoContext(ctx, "Mood color restored",
			"id", restored.ID, "mood", restored.Mood)
		return restored.ID, nil
	}
}

// Rename changes only the name of an existing mood color. Renaming
// to the current name is a no-op success.
func (s *MoodColorService) Rename(ctx context.Context, id int64, newName string) error {
	current, err := s.store.GetMoodColorByID(ctx, id)
	if err != nil {
		return fmt.Errorf("look up mood color %d: %w", id, err)
	}
	if current == nil {
		return core.ErrMoodColorNotFound
	}

	name := core.SanitizeMoodName(newName)
	check := *current
	check.Mood = name
	if err := check.Validate(); err != nil {
		return err
	}
	if name == current.Mood {
		return nil
	}

	other, err := s.store.GetMoodColorByName(ctx, name)
	if err != nil {
		return fmt.Errorf("look up mood color by name: %w", err)
	}
	// Deleted rows count as collisions too, otherwise a later
	// add-or-restore would find two rows for one name.
	if other != nil && other.ID != id {
		return core.ErrDuplicateMood
	}

	current.Mood = name
	if err := s.store.UpdateMoodColor(ctx, *current); err != nil {
		return fmt.Errorf("rename mood color %d: %w", id, err)
	}
	return nil
}

// Recolor changes only the color. Any non-blank string is accepted;
// no hex or format validation is applied.
func (s *MoodColorService) Recolor(ctx context.Context, id int64, color string) error {
	current, err := s.store.GetMoodColorByID(ctx, id)
	if err != nil {
		return fmt.Errorf("look up mood color %d: %w", id, err)
	}
	if current == nil {
		return core.ErrMoodColorNotFound
	}
	if strings.TrimSpace(color) == "" {
		return core.ErrBlankMoodHue
	}

	current.Color = color
	if err := s.store.UpdateMoodColor(ctx, *current); err != nil {
		return fmt.Errorf("recolor mood color %d: %w", id, err)
	}
	return nil
}

// SoftDelete marks the mood color deleted. The row and its identity
// persist; entries referencing it keep resolving through the join.
func (s *MoodColorService) SoftDelete(ctx context.Context, id int64) error {
	current, err := s.store.GetMoodColorByID(ctx, id)
	if err != nil {
		return fmt.Errorf("look up mood color %d: %w", id, err)
	}
	if current == nil {
		return core.ErrMoodColorNotFound
	}
	if current.IsDeleted {
		return nil
	}

	current.IsDeleted = true
	if err := s.store.UpdateMoodColor(ctx, *current); err != nil {
		return fmt.Errorf("soft delete mood color %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Mood color soft-deleted", "id", id, "mood", current.Mood)
	return nil
}

// List returns the non-deleted mood colors.
func (s *MoodColorService) List(ctx context.Context) ([]core.MoodColor, error) {
	moods, err := s.store.ListActiveMoodColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mood colors: %w", err)
	}
	return moods, nil
}

// Watch emits the full list of non-deleted mood colors once per
// underlying change until the context is cancelled. Cancelling only
// drops the subscription; the store is untouched.
func (s *MoodColorService) Watch(ctx context.Context) <-chan []core.MoodColor {
	out := make(chan []core.MoodColor)
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
				moods, err := s.store.ListActiveMoodColors(ctx)
				if err != nil {
					slog.ErrorContext(ctx, "Live mood color query failed", "error", err)
					continue
				}
				select {
				case out <- moods:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
