package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"umore/internal/core"
)

func candidate(mood, color string) core.MoodColor {
	return core.MoodColor{Mood: mood, Color: color, DateStamp: 1714521600}
}

func TestSaveNewMoodColor(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	id, err := svc.Save(ctx, candidate("  Happy\t", "4CAF50"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := store.GetMoodColorByID(ctx, id)
	if got == nil || got.Mood != "Happy" {
		t.Fatalf("name should be sanitized before storing: %+v", got)
	}
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		m    core.MoodColor
	}{
		{"blank name", candidate("   ", "fff")},
		{"control chars only", candidate("\x01\x02", "fff")},
		{"long name", candidate(strings.Repeat("a", 51), "fff")},
		{"blank color", candidate("Happy", "  ")},
		{"zero stamp", core.MoodColor{Mood: "Happy", Color: "fff", DateStamp: 0}},
	}
	for _, tc := range cases {
		if _, err := svc.Save(ctx, tc.m); !errors.Is(err, core.ErrInvalidMoodColor) {
			t.Fatalf("%s: expected ErrInvalidMoodColor, got %v", tc.name, err)
		}
	}

	moods, _ := store.ListActiveMoodColors(ctx)
	if len(moods) != 0 {
		t.Fatalf("failed saves must be no-ops, store has %d rows", len(moods))
	}
}

func TestSaveDuplicateActiveName(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	if _, err := svc.Save(ctx, candidate("Happy", "4CAF50")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	for _, dup := range []string{"Happy", "happy", " HAPPY "} {
		if _, err := svc.Save(ctx, candidate(dup, "00FF00")); !errors.Is(err, core.ErrDuplicateMood) {
			t.Fatalf("save %q: expected ErrDuplicateMood, got %v", dup, err)
		}
	}

	moods, _ := store.ListActiveMoodColors(ctx)
	if len(moods) != 1 || moods[0].Color != "4CAF50" {
		t.Fatalf("duplicate saves must not mutate: %+v", moods)
	}
}

func TestSaveRestoresDeletedMood(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	id, err := svc.Save(ctx, candidate("Happy", "4CAF50"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.SoftDelete(ctx, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Re-adding the same name in another casing restores the row.
	restored, err := svc.Save(ctx, candidate("happy", "00FF00"))
	if err != nil {
		t.Fatalf("restore save: %v", err)
	}
	if restored != id {
		t.Fatalf("restore must keep identity %d, got %d", id, restored)
	}

	got, _ := store.GetMoodColorByID(ctx, id)
	if got.IsDeleted {
		t.Fatalf("restored mood should be active")
	}
	if got.Mood != "happy" || got.Color != "00FF00" {
		t.Fatalf("restore takes casing and color from the input: %+v", got)
	}
	if got.DateStamp != 1714521600 {
		t.Fatalf("restore must not touch the created-at stamp: %+v", got)
	}
}

func TestSaveKeepsUniquenessUnderMixedSequences(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	names := []string{"Happy", "happy", "Sad", "HAPPY", "sad", "Calm"}
	for _, n := range names {
		if _, err := svc.Save(ctx, candidate(n, "fff")); err != nil && !errors.Is(err, core.ErrDuplicateMood) {
			t.Fatalf("save %q: %v", n, err)
		}
	}
	svcDeleteAndReadd := func(name string) {
		m, _ := store.GetMoodColorByName(ctx, name)
		if err := svc.SoftDelete(ctx, m.ID); err != nil {
			t.Fatalf("delete %q: %v", name, err)
		}
		if _, err := svc.Save(ctx, candidate(name, "eee")); err != nil {
			t.Fatalf("re-add %q: %v", name, err)
		}
	}
	svcDeleteAndReadd("Happy")
	svcDeleteAndReadd("Calm")

	moods, _ := store.ListActiveMoodColors(ctx)
	seen := make(map[string]bool)
	for _, m := range moods {
		key := core.FoldMoodName(m.Mood)
		if seen[key] {
			t.Fatalf("duplicate active mood %q", m.Mood)
		}
		seen[key] = true
	}
}

func TestRename(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	id, _ := svc.Save(ctx, candidate("Happy", "4CAF50"))
	other, _ := svc.Save(ctx, candidate("Sad", "2196F3"))

	if err := svc.Rename(ctx, 999, "Calm"); !errors.Is(err, core.ErrMoodColorNotFound) {
		t.Fatalf("missing target: got %v", err)
	}
	if err := svc.Rename(ctx, id, "  Happy "); err != nil {
		t.Fatalf("rename to same name should be a no-op success: %v", err)
	}
	if err := svc.Rename(ctx, id, "sad"); !errors.Is(err, core.ErrDuplicateMood) {
		t.Fatalf("collision with other active mood: got %v", err)
	}
	if err := svc.Rename(ctx, id, strings.Repeat("x", 51)); !errors.Is(err, core.ErrMoodNameTooLong) {
		t.Fatalf("oversized name: got %v", err)
	}

	// Collisions with deleted names count too.
	if err := svc.SoftDelete(ctx, other); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Rename(ctx, id, "SAD"); !errors.Is(err, core.ErrDuplicateMood) {
		t.Fatalf("collision with deleted mood: got %v", err)
	}

	if err := svc.Rename(ctx, id, "Joyful"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ := store.GetMoodColorByID(ctx, id)
	if got.Mood != "Joyful" || got.Color != "4CAF50" || got.IsDeleted || got.DateStamp != 1714521600 {
		t.Fatalf("rename must change only the name: %+v", got)
	}
}

func TestRecolor(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	id, _ := svc.Save(ctx, candidate("Happy", "4CAF50"))

	if err := svc.Recolor(ctx, 999, "fff"); !errors.Is(err, core.ErrMoodColorNotFound) {
		t.Fatalf("missing target: got %v", err)
	}
	if err := svc.Recolor(ctx, id, "   "); !errors.Is(err, core.ErrBlankMoodHue) {
		t.Fatalf("blank color: got %v", err)
	}
	// Any non-blank string is accepted, format is not validated.
	if err := svc.Recolor(ctx, id, "not-a-hex-color"); err != nil {
		t.Fatalf("recolor: %v", err)
	}
	got, _ := store.GetMoodColorByID(ctx, id)
	if got.Color != "not-a-hex-color" || got.Mood != "Happy" {
		t.Fatalf("recolor must change only the color: %+v", got)
	}
}

func TestSoftDeleteKeepsRowRetrievable(t *testing.T) {
	store := newMemStore()
	svc := NewMoodColorService(store)
	ctx := context.Background()

	id, _ := svc.Save(ctx, candidate("Happy", "4CAF50"))
	if err := svc.SoftDelete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.SoftDelete(ctx, id); err != nil {
		t.Fatalf("repeated delete should be a no-op: %v", err)
	}
	if err := svc.SoftDelete(ctx, 999); !errors.Is(err, core.ErrMoodColorNotFound) {
		t.Fatalf("missing target: got %v", err)
	}

	got, _ := store.GetMoodColorByID(ctx, id)
	if got == nil || !got.IsDeleted || got.Mood != "Happy" {
		t.Fatalf("deleted row must stay retrievable by id: %+v", got)
	}
	active, _ := svc.List(ctx)
	if len(active) != 0 {
		t.Fatalf("deleted moods must not be listed: %+v", active)
	}
}
