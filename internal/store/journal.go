package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/animakit/anima/internal/domain"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS journal (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	op             TEXT NOT NULL,
	kind           TEXT NOT NULL DEFAULT '',
	detail         TEXT NOT NULL DEFAULT '',
	mental_process TEXT NOT NULL,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_op ON journal(op);
`

// defaultRecentLimit applies when a caller asks for a non-positive number
// of journal entries.
const defaultRecentLimit = 50

// SQLiteJournal is an append-only operation log. Every mutating soul
// operation leaves one row; rows are never updated or deleted.
type SQLiteJournal struct {
	db *sqlx.DB
}

func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal db: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal db: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

type journalRow struct {
	ID            int64  `db:"id"`
	Op            string `db:"op"`
	Kind          string `db:"kind"`
	Detail        string `db:"detail"`
	MentalProcess string `db:"mental_process"`
	CreatedAt     string `db:"created_at"`
}

func (r journalRow) toEntry() (domain.JournalEntry, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return domain.JournalEntry{
		ID:            r.ID,
		Op:            r.Op,
		Kind:          r.Kind,
		Detail:        r.Detail,
		MentalProcess: domain.MentalProcess(r.MentalProcess),
		CreatedAt:     createdAt,
	}, nil
}

func (j *SQLiteJournal) Append(ctx context.Context, e *domain.JournalEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO journal (op, kind, detail, mental_process, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Op, e.Kind, e.Detail, string(e.MentalProcess), e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read journal entry id: %w", err)
	}
	e.ID = id
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var rows []journalRow
	if err := j.db.SelectContext(ctx, &rows,
		`SELECT id, op, kind, detail, mental_process, created_at FROM journal ORDER BY id DESC LIMIT ?`,
		limit); err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	entries := make([]domain.JournalEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (j *SQLiteJournal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM journal`); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ domain.JournalStore = (*SQLiteJournal)(nil)
