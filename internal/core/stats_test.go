package core

import (
	"testing"
	"time"
)

func dated(id int64, mood, color string, year, month, day int) EntryWithMoodColor {
	return EntryWithMoodColor{
		Entry: Entry{
			ID:          id,
			MoodColorID: 1,
			DateStamp:   time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Unix(),
		},
		MoodName:  mood,
		MoodColor: color,
	}
}

func TestComputeTotalStatsEmpty(t *testing.T) {
	got := ComputeTotalStats(nil, time.Now())
	if !got.FirstEntryDate.IsZero() {
		t.Fatalf("expected zero first date, got %v", got.FirstEntryDate)
	}
	if got.AverageEntriesPerMonth != 0 {
		t.Fatalf("expected zero average, got %v", got.AverageEntriesPerMonth)
	}
}

func TestComputeTotalStats(t *testing.T) {
	entries := []EntryWithMoodColor{
		dated(1, "Happy", "4CAF50", 2024, 3, 10),
		dated(2, "Sad", "2196F3", 2024, 5, 1),
		dated(3, "Calm", "9C27B0", 2024, 4, 20),
	}
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	got := ComputeTotalStats(entries, now)
	wantFirst := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.FirstEntryDate.Equal(wantFirst) {
		t.Fatalf("first date: got %v, want %v", got.FirstEntryDate, wantFirst)
	}
	// March to June is 3 whole months, 3 entries -> 1.0 per month.
	if got.AverageEntriesPerMonth != 1.0 {
		t.Fatalf("average: got %v, want 1.0", got.AverageEntriesPerMonth)
	}
}

func TestComputeTotalStatsSameMonthClampsToOne(t *testing.T) {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	entries := []EntryWithMoodColor{
		dated(1, "Happy", "4CAF50", 2024, 5, 1),
		dated(2, "Happy", "4CAF50", 2024, 5, 2),
	}
	got := ComputeTotalStats(entries, now)
	if got.AverageEntriesPerMonth != 2.0 {
		t.Fatalf("average: got %v, want 2.0", got.AverageEntriesPerMonth)
	}
}

func TestMoodDistribution(t *testing.T) {
	entries := []EntryWithMoodColor{
		dated(1, "Sad", "2196F3", 2024, 5, 1),
		dated(2, "happy", "4CAF50", 2024, 5, 2),
		dated(3, "happy", "4CAF50", 2024, 5, 3),
	}

	got := MoodDistribution(entries, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].MoodName != "happy" || got[0].Count != 2 || got[0].Color != "4CAF50" {
		t.Fatalf("top group wrong: %+v", got[0])
	}
	if got[1].MoodName != "Sad" || got[1].Count != 1 {
		t.Fatalf("second group wrong: %+v", got[1])
	}

	total := 0
	for _, g := range got {
		total += g.Count
	}
	if total != len(entries) {
		t.Fatalf("counts sum to %d, want %d", total, len(entries))
	}
}

func TestMoodDistributionTiesKeepFirstSeenOrder(t *testing.T) {
	entries := []EntryWithMoodColor{
		dated(1, "Calm", "9C27B0", 2024, 5, 1),
		dated(2, "Angry", "F44336", 2024, 5, 2),
	}
	got := MoodDistribution(entries, 0)
	if got[0].MoodName != "Calm" || got[1].MoodName != "Angry" {
		t.Fatalf("equal counts must keep input order: %+v", got)
	}
}

func TestMoodDistributionLimit(t *testing.T) {
	entries := []EntryWithMoodColor{
		dated(1, "Calm", "9C27B0", 2024, 5, 1),
		dated(2, "Calm", "9C27B0", 2024, 5, 2),
		dated(3, "Angry", "F44336", 2024, 5, 3),
	}
	got := MoodDistribution(entries, 1)
	if len(got) != 1 || got[0].MoodName != "Calm" {
		t.Fatalf("limit 1 should keep the top group: %+v", got)
	}
	if MoodDistribution(nil, 3) != nil {
		t.Fatalf("empty input should yield an empty distribution")
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	// Three entries across May 2024 (31 days).
	entries := []EntryWithMoodColor{
		dated(1, "Happy", "4CAF50", 2024, 5, 1),
		dated(2, "Happy", "4CAF50", 2024, 5, 15),
		dated(3, "Sad", "2196F3", 2024, 5, 31),
	}

	got := MonthlyBreakdown(entries, 0)
	if len(got) != 1 {
		t.Fatalf("expected one month, got %d", len(got))
	}
	m := got[0]
	if m.Year != 2024 || m.Month != 5 || m.Count != 3 {
		t.Fatalf("group wrong: %+v", m)
	}
	if m.CompletionRate != 10 { // round(3/31*100)
		t.Fatalf("completion rate: got %d, want 10", m.CompletionRate)
	}
}

func TestMonthlyBreakdownOrderAndLimit(t *testing.T) {
	entries := []EntryWithMoodColor{
		dated(1, "Happy", "4CAF50", 2023, 12, 3),
		dated(2, "Happy", "4CAF50", 2024, 2, 3),
		dated(3, "Happy", "4CAF50", 2024, 1, 3),
	}
	got := MonthlyBreakdown(entries, 0)
	if len(got) != 3 || got[0].Month != 2 || got[1].Month != 1 || got[2].Month != 12 {
		t.Fatalf("expected most recent first: %+v", got)
	}

	got = MonthlyBreakdown(entries, 2)
	if len(got) != 2 || got[1].Year != 2024 || got[1].Month != 1 {
		t.Fatalf("limit should keep the most recent months: %+v", got)
	}
}

func TestMonthlyBreakdownCompletionBounds(t *testing.T) {
	// Every day of February 2024 (leap year, 29 days) has an entry.
	var entries []EntryWithMoodColor
	for d := 1; d <= 29; d++ {
		entries = append(entries, dated(int64(d), "Happy", "4CAF50", 2024, 2, d))
	}
	got := MonthlyBreakdown(entries, 0)
	if got[0].CompletionRate != 100 {
		t.Fatalf("full month should reach exactly 100, got %d", got[0].CompletionRate)
	}

	for _, m := range MonthlyBreakdown(entries[:7], 0) {
		if m.CompletionRate < 0 || m.CompletionRate > 100 {
			t.Fatalf("completion rate out of bounds: %d", m.CompletionRate)
		}
	}
}
