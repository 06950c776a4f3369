package memory

import (
	"context"
	"testing"
	"time"

	"umore/internal/core"
)

func joined(id int64, day time.Time, mood string) core.EntryWithMoodColor {
	return core.EntryWithMoodColor{
		Entry: core.Entry{
			ID:          id,
			MoodColorID: 1,
			DateStamp:   day.Unix(),
		},
		MoodName:  mood,
		MoodColor: "4CAF50",
	}
}

func TestAppendAndRemove(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	ref, err := s.Append(ctx, joined(1, day, "Happy"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected a row reference")
	}
	if got, ok := s.Get("2024-05-01"); !ok || got.MoodName != "Happy" {
		t.Fatalf("stored row wrong: %+v ok=%v", got, ok)
	}

	if err := s.Remove(ctx, "2024-05-01"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("row should be gone")
	}
	// Removing a missing day is fine.
	if err := s.Remove(ctx, "2024-05-02"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestAppendRejectsInvalidEntry(t *testing.T) {
	s := New()
	bad := core.EntryWithMoodColor{Entry: core.Entry{MoodColorID: 0, DateStamp: 1}}
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAppendSameDayOverwrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if _, err := s.Append(ctx, joined(1, day, "Happy")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(ctx, joined(1, day, "Calm")); err != nil {
		t.Fatalf("re-append: %v", err)
	}
	if got, _ := s.Get("2024-05-01"); got.MoodName != "Calm" || s.Len() != 1 {
		t.Fatalf("re-synced entry should overwrite: %+v len=%d", got, s.Len())
	}
}
