// Package export defines the ports for the journal backup backends.
// The worker mirrors entry changes into one of them; the domain core
// never depends on this package.
package export

import (
	"context"

	"umore/internal/core"
)

type (
	// EntryAppender writes one joined entry to the backup target and
	// returns an opaque row reference.
	EntryAppender interface {
		Append(ctx context.Context, e core.EntryWithMoodColor) (rowRef string, err error)
	}

	// EntryRemover removes the backup row for a calendar day. The
	// day key is used because at most one entry exists per day and
	// the local row is already gone when a delete event arrives.
	EntryRemover interface {
		Remove(ctx context.Context, day string) error
	}
)
