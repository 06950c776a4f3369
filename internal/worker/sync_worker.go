// Package worker mirrors entry changes from the local database to
// the configured backup backend.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"umore/internal/amqp"
	"umore/internal/core"
	"umore/internal/export"
)

// JoinedEntryReader is the slice of the storage layer the worker
// needs: a point lookup on the entry/mood join.
type JoinedEntryReader interface {
	GetEntryWithMoodByID(ctx context.Context, id int64) (*core.EntryWithMoodColor, error)
}

// SyncWorker applies entry events to the backup backend.
type SyncWorker struct {
	store    JoinedEntryReader
	appender export.EntryAppender
	remover  export.EntryRemover
}

func NewSyncWorker(store JoinedEntryReader, appender export.EntryAppender, remover export.EntryRemover) *SyncWorker {
	return &SyncWorker{store: store, appender: appender, remover: remover}
}

// HandleEvent dispatches one queue message. Returning an error
// requeues the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	switch msg.Kind {
	case amqp.KindEntrySync:
		return w.handleSync(ctx, msg)
	case amqp.KindEntryDelete:
		return w.handleDelete(ctx, msg)
	default:
		// Unknown kinds are dropped by the consumer before they
		// reach the worker, but stay defensive about replays.
		slog.WarnContext(ctx, "Ignoring unknown event kind", "kind", msg.Kind)
		return nil
	}
}

func (w *SyncWorker) handleSync(ctx context.Context, msg *amqp.EntryEventMessage) error {
	entry, err := w.store.GetEntryWithMoodByID(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}
	if entry == nil {
		// Deleted between publish and consume; the delete event
		// will clean up the backup.
		slog.InfoContext(ctx, "Entry vanished before sync, skipping", "id", msg.ID)
		return nil
	}

	ref, err := w.appender.Append(ctx, *entry)
	if err != nil {
		return fmt.Errorf("append entry to backup: %w", err)
	}

	slog.InfoContext(ctx, "Entry synced to backup",
		"id", msg.ID, "day", core.DayKey(entry.DateStamp), "ref", ref)
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.EntryEventMessage) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No backup remover configured, skipping delete", "id", msg.ID)
		return nil
	}

	if err := w.remover.Remove(ctx, msg.Day); err != nil {
		return fmt.Errorf("remove entry from backup: %w", err)
	}

	slog.InfoContext(ctx, "Entry backup removed", "id", msg.ID, "day", msg.Day)
	return nil
}
