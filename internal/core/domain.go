package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxMoodNameLength bounds the mood name, in runes.
	MaxMoodNameLength = 50
	// MaxEntryContentLength bounds entry content, in runes.
	MaxEntryContentLength = 10000
)

type (
	// MoodColor is a user-defined named tag with a display color.
	// ID is zero until the store assigns an identity. Deleted mood
	// colors are never physically removed so that entries keep a
	// valid join target.
	MoodColor struct {
		ID        int64
		Mood      string
		Color     string
		IsDeleted bool
		DateStamp int64 // created-at, epoch seconds
	}

	// Entry is one journal entry. At most one entry exists per
	// calendar date. MoodColorID must reference an existing mood
	// color row, deleted or not.
	Entry struct {
		ID          int64
		MoodColorID int64
		Content     string
		DateStamp   int64 // epoch seconds
	}

	// EntryWithMoodColor is an Entry joined with the current name,
	// color and deletion state of its mood color. Renaming or
	// recoloring a mood retroactively changes past entries here.
	EntryWithMoodColor struct {
		Entry
		MoodName    string
		MoodColor   string
		MoodDeleted bool
	}
)

// Error kinds. Every domain validation failure wraps one of these,
// so callers can classify with errors.Is.
var (
	ErrInvalidMoodColor = errors.New("invalid mood color")
	ErrInvalidEntry     = errors.New("invalid entry")
)

var (
	ErrBlankMoodName     = fmt.Errorf("%w: name is blank", ErrInvalidMoodColor)
	ErrMoodNameTooLong   = fmt.Errorf("%w: name exceeds %d characters", ErrInvalidMoodColor, MaxMoodNameLength)
	ErrBlankMoodHue      = fmt.Errorf("%w: color is blank", ErrInvalidMoodColor)
	ErrBadDateStamp      = fmt.Errorf("%w: date stamp must be positive", ErrInvalidMoodColor)
	ErrDuplicateMood     = fmt.Errorf("%w: name already in use", ErrInvalidMoodColor)
	ErrMoodColorNotFound = fmt.Errorf("%w: no mood color with that id", ErrInvalidMoodColor)

	ErrMoodColorMissing   = fmt.Errorf("%w: mood color reference does not exist", ErrInvalidEntry)
	ErrContentTooLong     = fmt.Errorf("%w: content exceeds %d characters", ErrInvalidEntry, MaxEntryContentLength)
	ErrBadEntryDateStamp  = fmt.Errorf("%w: date stamp must be positive", ErrInvalidEntry)
	ErrDuplicateEntryDate = fmt.Errorf("%w: an entry already exists for that date", ErrInvalidEntry)
)

// SanitizeMoodName strips control characters and surrounding
// whitespace from a candidate mood name.
func SanitizeMoodName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(clean)
}

// FoldMoodName returns the case-insensitive comparison key for a
// mood name. Non-deleted mood colors are unique under this key.
func FoldMoodName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (m MoodColor) Validate() error {
	name := strings.TrimSpace(m.Mood)
	if name == "" {
		return ErrBlankMoodName
	}
	if utf8.RuneCountInString(name) > MaxMoodNameLength {
		return ErrMoodNameTooLong
	}
	if strings.TrimSpace(m.Color) == "" {
		return ErrBlankMoodHue
	}
	if m.DateStamp <= 0 {
		return ErrBadDateStamp
	}
	return nil
}

func (e Entry) Validate() error {
	if e.MoodColorID <= 0 {
		return ErrMoodColorMissing
	}
	if e.DateStamp <= 0 {
		return ErrBadEntryDateStamp
	}
	if utf8.RuneCountInString(e.Content) > MaxEntryContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Date returns the calendar date of the entry in UTC.
func (e Entry) Date() time.Time {
	return DateOf(e.DateStamp)
}

// DateOf converts an epoch-seconds stamp to its UTC calendar date,
// truncated to midnight.
func DateOf(stamp int64) time.Time {
	t := time.Unix(stamp, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey is the canonical per-day key used to enforce the one
// entry per calendar date rule.
func DayKey(stamp int64) string {
	return time.Unix(stamp, 0).UTC().Format("2006-01-02")
}
