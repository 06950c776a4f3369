package core

import (
	"sort"
	"strings"
)

// EntryOrder selects the sort axis for entry listings.
type EntryOrder string

// Direction selects ascending or descending order.
type Direction string

const (
	OrderByDate EntryOrder = "date"
	OrderByMood EntryOrder = "mood"

	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortEntries orders entries in place by the given axis and
// direction. Equal keys keep a reproducible order regardless of the
// storage engine: ties fall back to ascending id.
func SortEntries(entries []EntryWithMoodColor, order EntryOrder, dir Direction) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less, equal bool
		switch order {
		case OrderByMood:
			na, nb := strings.ToLower(a.MoodName), strings.ToLower(b.MoodName)
			less, equal = na < nb, na == nb
		default:
			less, equal = a.DateStamp < b.DateStamp, a.DateStamp == b.DateStamp
		}
		if equal {
			return a.ID < b.ID
		}
		if dir == Descending {
			return !less
		}
		return less
	})
}
