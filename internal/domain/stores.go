package domain

import (
	"context"
	"time"
)

// Snapshot carries everything the engine persists. Identity is deliberately
// absent; it always comes from the persona.
type Snapshot struct {
	WorkingMemory  []MemoryEntry
	LongTermMemory []MemoryEntry
	EmotionalState EmotionalState
	MentalProcess  MentalProcess
}

// SnapshotStore persists the behavioral state as two independent records, a
// memory record and a state record, overwriting both in full on every Save.
// Load tolerates either record being absent or unreadable: the returned
// snapshot carries nil memory slices when the memory record was unusable
// and a nil emotional state when the state record was, and is nil entirely
// when neither record yielded anything.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// Journal op values.
const (
	OpPerceive   = "perceive"
	OpTransition = "transition"
	OpAddMemory  = "add_memory"
)

// JournalEntry is one recorded engine operation.
type JournalEntry struct {
	ID            int64         `json:"id"`
	Op            string        `json:"op"`
	Kind          string        `json:"kind,omitempty"`
	Detail        string        `json:"detail"`
	MentalProcess MentalProcess `json:"mental_process"`
	CreatedAt     time.Time     `json:"created_at"`
}

// JournalStore is an append-only record of engine operations. Journaling is
// best-effort: its failures never fail the operation being recorded.
type JournalStore interface {
	Append(ctx context.Context, e *JournalEntry) error
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
	Count(ctx context.Context) (int64, error)
}
