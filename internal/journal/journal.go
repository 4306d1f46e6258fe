// Package journal appends registry operations to PostgreSQL.
// The journal is write-only; the registry never rebuilds from it.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Operation names recorded in the journal.
const (
	OpAddEvent    = "add_event"
	OpDeleteEvent = "delete_event"
	OpRegister    = "register"
	OpUpdateEvent = "update_event"
)

// Entry is a single journal row.
type Entry struct {
	ID         uuid.UUID
	Operation  string
	EventName  string
	Outcome    string
	RecordedAt time.Time
}

// Recorder accepts journal entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Execer is the subset of pgxpool.Pool the journal needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schema = `CREATE TABLE IF NOT EXISTS registry_journal (
	id          UUID PRIMARY KEY,
	operation   TEXT NOT NULL,
	event_name  TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
)`

const insertEntry = `INSERT INTO registry_journal (id, operation, event_name, outcome, recorded_at)
VALUES ($1, $2, $3, $4, $5)`

// Postgres writes entries to the registry_journal table.
type Postgres struct {
	db  Execer
	now func() time.Time
}

// NewPostgres constructs a Postgres journal.
func NewPostgres(db Execer) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// EnsureSchema creates the journal table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

// Record inserts e, filling ID and RecordedAt when unset.
func (p *Postgres) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = p.now().UTC()
	}

	_, err := p.db.Exec(ctx, insertEntry, e.ID, e.Operation, e.EventName, e.Outcome, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Nop discards every entry. Used when no database is configured.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }
