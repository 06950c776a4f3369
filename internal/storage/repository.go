package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"umore/internal/core"
	"umore/internal/live"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists mood colors and entries and drives the
// live-query hub: every committed write signals subscribers.
type SQLiteRepository struct {
	db      *sql.DB
	changes *live.Hub
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Single connection: the foreign-key pragma is per connection,
	// and writes serialize through one writer anyway.
	db.SetMaxOpenConns(1)

	// Entries hold a hard foreign key to mood colors.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		changes: live.NewHub(),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	r.changes.Close()
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Changes exposes the hub that live queries subscribe to.
func (r *SQLiteRepository) Changes() *live.Hub {
	return r.changes
}

// InsertMoodColor stores a new mood color and returns the assigned id.
func (r *SQLiteRepository) InsertMoodColor(ctx context.Context, m core.MoodColor) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO mood_colors (mood, mood_key, color, is_deleted, date_stamp)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Mood, core.FoldMoodName(m.Mood), m.Color, boolToInt(m.IsDeleted), m.DateStamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert mood color: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert mood color id: %w", err)
	}

	slog.InfoContext(ctx, "Mood color saved", "id", id, "mood", m.Mood)
	r.changes.Notify()
	return id, nil
}

// UpdateMoodColor rewrites an existing row in place, keeping its id.
// Restores, renames, recolors and soft deletes all go through here.
func (r *SQLiteRepository) UpdateMoodColor(ctx context.Context, m core.MoodColor) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE mood_colors
		 SET mood = ?, mood_key = ?, color = ?, is_deleted = ?, date_stamp = ?
		 WHERE id = ?`,
		m.Mood, core.FoldMoodName(m.Mood), m.Color, boolToInt(m.IsDeleted), m.DateStamp, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update mood color %d: %w", m.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update mood color %d: rows affected: %w", m.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update mood color %d: no such row", m.ID)
	}

	slog.InfoContext(ctx, "Mood color updated",
		"id", m.ID, "mood", m.Mood, "is_deleted", m.IsDeleted)
	r.changes.Notify()
	return nil
}

// GetMoodColorByID returns the row regardless of deletion state, or
// (nil, nil) when no row exists.
func (r *SQLiteRepository) GetMoodColorByID(ctx context.Context, id int64) (*core.MoodColor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, mood, color, is_deleted, date_stamp
		 FROM mood_colors WHERE id = ?`, id)
	return scanMoodColor(row, fmt.Sprintf("get mood color %d", id))
}

// GetMoodColorByName matches the trimmed, case-folded name against
// all rows, deleted included. Returns (nil, nil) when absent. The
// fold key is computed in Go so that Unicode folding stays
// consistent with the domain layer.
func (r *SQLiteRepository) GetMoodColorByName(ctx context.Context, name string) (*core.MoodColor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, mood, color, is_deleted, date_stamp
		 FROM mood_colors WHERE mood_key = ?
		 ORDER BY is_deleted ASC, id ASC LIMIT 1`,
		core.FoldMoodName(name))
	return scanMoodColor(row, fmt.Sprintf("get mood color by name %q", name))
}

// ListActiveMoodColors returns all non-deleted mood colors in
// insertion order.
func (r *SQLiteRepository) ListActiveMoodColors(ctx context.Context) ([]core.MoodColor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mood, color, is_deleted, date_stamp
		 FROM mood_colors WHERE is_deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list mood colors: %w", err)
	}
	defer rows.Close()

	var moods []core.MoodColor
	for rows.Next() {
		var m core.MoodColor
		var deleted int
		if err := rows.Scan(&m.ID, &m.Mood, &m.Color, &deleted, &m.DateStamp); err != nil {
			return nil, fmt.Errorf("scan mood color: %w", err)
		}
		m.IsDeleted = deleted != 0
		moods = append(moods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood colors: %w", err)
	}
	return moods, nil
}

// InsertEntry stores an entry. A pre-set id is honoured so an
// undo-restore can bring back the original identity; otherwise the
// store assigns one. A dangling mood reference or a second entry on
// the same calendar date fails the insert.
func (r *SQLiteRepository) InsertEntry(ctx context.Context, e core.Entry) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if e.ID > 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO entries (id, mood_color_id, content, date_stamp, day)
			 VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.MoodColorID, e.Content, e.DateStamp, core.DayKey(e.DateStamp))
	} else {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO entries (mood_color_id, content, date_stamp, day)
			 VALUES (?, ?, ?, ?)`,
			e.MoodColorID, e.Content, e.DateStamp, core.DayKey(e.DateStamp))
	}
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert entry id: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", id, "mood_color_id", e.MoodColorID, "day", core.DayKey(e.DateStamp))
	r.changes.Notify()
	return id, nil
}

// UpdateEntry replaces content, mood reference and date of an
// existing entry.
func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries
		 SET mood_color_id = ?, content = ?, date_stamp = ?, day = ?
		 WHERE id = ?`,
		e.MoodColorID, e.Content, e.DateStamp, core.DayKey(e.DateStamp), e.ID)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry %d: rows affected: %w", e.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update entry %d: no such row", e.ID)
	}

	slog.InfoContext(ctx, "Entry updated", "id", e.ID, "mood_color_id", e.MoodColorID)
	r.changes.Notify()
	return nil
}

// DeleteEntry removes the row. Entry deletion is hard; undo is the
// caller's job via InsertEntry with the retained value.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete entry %d: no such row", id)
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	r.changes.Notify()
	return nil
}

// GetEntryByID returns (nil, nil) when no row exists.
func (r *SQLiteRepository) GetEntryByID(ctx context.Context, id int64) (*core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, mood_color_id, content, date_stamp
		 FROM entries WHERE id = ?`, id)
	return scanEntry(row, fmt.Sprintf("get entry %d", id))
}

// GetEntryByDate looks an entry up by its calendar day key
// (YYYY-MM-DD). Returns (nil, nil) when the day has no entry.
func (r *SQLiteRepository) GetEntryByDate(ctx context.Context, day string) (*core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, mood_color_id, content, date_stamp
		 FROM entries WHERE day = ?`, day)
	return scanEntry(row, fmt.Sprintf("get entry for day %s", day))
}

// ListEntriesWithMood joins every entry with the current name,
// color and deletion state of its mood color. Deleted moods still
// resolve; that is the point of soft deletion.
func (r *SQLiteRepository) ListEntriesWithMood(ctx context.Context) ([]core.EntryWithMoodColor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.mood_color_id, e.content, e.date_stamp,
		        m.mood, m.color, m.is_deleted
		 FROM entries e
		 JOIN mood_colors m ON m.id = e.mood_color_id
		 ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.EntryWithMoodColor
	for rows.Next() {
		var e core.EntryWithMoodColor
		var deleted int
		if err := rows.Scan(
			&e.ID, &e.MoodColorID, &e.Content, &e.DateStamp,
			&e.MoodName, &e.MoodColor, &deleted,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.MoodDeleted = deleted != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// GetEntryWithMoodByID returns one joined row for the export
// worker, or (nil, nil) when the entry no longer exists.
func (r *SQLiteRepository) GetEntryWithMoodByID(ctx context.Context, id int64) (*core.EntryWithMoodColor, error) {
	var e core.EntryWithMoodColor
	var deleted int
	err := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.mood_color_id, e.content, e.date_stamp,
		        m.mood, m.color, m.is_deleted
		 FROM entries e
		 JOIN mood_colors m ON m.id = e.mood_color_id
		 WHERE e.id = ?`, id).Scan(
		&e.ID, &e.MoodColorID, &e.Content, &e.DateStamp,
		&e.MoodName, &e.MoodColor, &deleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get joined entry %d: %w", id, err)
	}
	e.MoodDeleted = deleted != 0
	return &e, nil
}

func scanMoodColor(row *sql.Row, op string) (*core.MoodColor, error) {
	var m core.MoodColor
	var deleted int
	err := row.Scan(&m.ID, &m.Mood, &m.Color, &deleted, &m.DateStamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.IsDeleted = deleted != 0
	return &m, nil
}

func scanEntry(row *sql.Row, op string) (*core.Entry, error) {
	var e core.Entry
	err := row.Scan(&e.ID, &e.MoodColorID, &e.Content, &e.DateStamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
