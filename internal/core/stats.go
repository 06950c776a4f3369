// Package core statistics: pure functions over a snapshot of joined
// entries. No store access happens here; callers pass the snapshot
// produced by a live query emission.
package core

import (
	"math"
	"sort"
	"time"
)

// TotalStats summarises the whole journal.
type TotalStats struct {
	FirstEntryDate         time.Time // zero when the journal is empty
	AverageEntriesPerMonth float64
}

// MoodCount is one group of the mood distribution. Name and color
// are the mood's current values, not historical snapshots.
type MoodCount struct {
	MoodName string
	Color    string
	Count    int
}

// MonthlyCount is one group of the monthly breakdown.
type MonthlyCount struct {
	Year           int
	Month          int // 1-12
	Count          int
	CompletionRate int // 0-100, percentage of days with an entry
}

// ComputeTotalStats returns the date of the earliest entry and the
// average number of entries per whole month elapsed since then.
func ComputeTotalStats(entries []EntryWithMoodColor, now time.Time) TotalStats {
	if len(entries) == 0 {
		return TotalStats{}
	}
	min := entries[0].DateStamp
	for _, e := range entries[1:] {
		if e.DateStamp < min {
			min = e.DateStamp
		}
	}
	first := DateOf(min)
	months := monthsBetween(first, now.UTC())
	if months < 1 {
		months = 1
	}
	return TotalStats{
		FirstEntryDate:         first,
		AverageEntriesPerMonth: float64(len(entries)) / float64(months),
	}
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// MoodDistribution groups entries by current mood name and counts
// occurrences, most frequent first. Ties between equal counts keep
// first-seen input order. A positive limit truncates the result.
func MoodDistribution(entries []EntryWithMoodColor, limit int) []MoodCount {
	if len(entries) == 0 {
		return nil
	}
	index := make(map[string]int, len(entries))
	groups := make([]MoodCount, 0, len(entries))
	for _, e := range entries {
		key := FoldMoodName(e.MoodName)
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, MoodCount{
			MoodName: e.MoodName,
			Color:    e.MoodColor,
			Count:    1,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// MonthlyBreakdown groups entries by calendar month, most recent
// first, with a completion rate: the percentage of days in that
// month carrying an entry. A positive limit keeps only the N most
// recent months.
func MonthlyBreakdown(entries []EntryWithMoodColor, limit int) []MonthlyCount {
	if len(entries) == 0 {
		return nil
	}
	type key struct{ year, month int }
	counts := make(map[key]int, len(entries))
	for _, e := range entries {
		d := e.Date()
		counts[key{d.Year(), int(d.Month())}]++
	}
	months := make([]MonthlyCount, 0, len(counts))
	for k, n := range counts {
		months = append(months, MonthlyCount{
			Year:           k.year,
			Month:          k.month,
			Count:          n,
			CompletionRate: completionRate(n, daysInMonth(k.year, k.month)),
		})
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	if limit > 0 && len(months) > limit {
		months = months[:limit]
	}
	return months
}

func completionRate(count, days int) int {
	return int(math.Round(float64(count) / float64(days) * 100))
}

// daysInMonth uses the day-zero-of-next-month trick.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
