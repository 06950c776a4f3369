package services

import (
	"context"

	"umore/internal/core"
	"umore/internal/live"
)

// Ports to the storage collaborator. The SQLite repository
// implements all of them; tests substitute in-memory fakes.
type (
	// ChangeSource drives live queries: every committed write
	// signals the hub.
	ChangeSource interface {
		Changes() *live.Hub
	}

	MoodColorStore interface {
		ChangeSource
		// InsertMoodColor assigns and returns a new identity.
		InsertMoodColor(ctx context.Context, m core.MoodColor) (int64, error)
		UpdateMoodColor(ctx context.Context, m core.MoodColor) error
		// Point lookups return (nil, nil) when no row exists and
		// resolve regardless of deletion state.
		GetMoodColorByID(ctx context.Context, id int64) (*core.MoodColor, error)
		GetMoodColorByName(ctx context.Context, name string) (*core.MoodColor, error)
		ListActiveMoodColors(ctx context.Context) ([]core.MoodColor, error)
	}

	EntryStore interface {
		ChangeSource
		// InsertEntry honours a pre-set id for undo-restores.
		InsertEntry(ctx context.Context, e core.Entry) (int64, error)
		UpdateEntry(ctx context.Context, e core.Entry) error
		DeleteEntry(ctx context.Context, id int64) error
		GetEntryByID(ctx context.Context, id int64) (*core.Entry, error)
		GetEntryByDate(ctx context.Context, day string) (*core.Entry, error)
		ListEntriesWithMood(ctx context.Context) ([]core.EntryWithMoodColor, error)
	}

	// EventPublisher mirrors entry changes onto the message queue
	// for the export worker. Publication is best effort and never
	// fails a user operation.
	EventPublisher interface {
		PublishEntrySync(ctx context.Context, id, version int64) error
		PublishEntryDelete(ctx context.Context, id int64, day string) error
	}
)
