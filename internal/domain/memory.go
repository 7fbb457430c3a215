package domain

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Memory kind tags. Kinds are free-form; these are the ones the system
// itself produces.
const (
	KindObservation    = "observation"
	KindExperience     = "experience"
	KindSelfReflection = "self_reflection"
	KindReflection     = "reflection"
)

const (
	// WorkingMemoryMax is the working-tier append cap; exceeding it
	// triggers eviction.
	WorkingMemoryMax = 100
	// WorkingMemoryKeep is the working-tier size after eviction.
	WorkingMemoryKeep = 50
	// LongTermMax caps the long-term tier; oldest entries drop first.
	LongTermMax = 500
	// LongTermThreshold routes a new entry to long-term storage when its
	// importance meets it (inclusive).
	LongTermThreshold = 0.7
)

// MemoryEntry is immutable once created. Capacity eviction is the only
// removal mechanism.
type MemoryEntry struct {
	ID               string         `json:"id"`
	Content          string         `json:"content"`
	Kind             string         `json:"kind"`
	Importance       float64        `json:"importance"`
	EmotionalContext EmotionalState `json:"emotional_context,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// NewMemoryEntry stamps a fresh entry with a time-sortable ID. Importance is
// clamped to [0,1].
func NewMemoryEntry(kind, content string, importance float64) MemoryEntry {
	return MemoryEntry{
		ID:         ulid.Make().String(),
		Content:    content,
		Kind:       kind,
		Importance: Clamp01(importance),
		CreatedAt:  time.Now().UTC(),
	}
}

// RoutesToLongTerm reports whether the entry belongs in long-term storage.
// The decision is made once, at insertion, and never revisited.
func (m MemoryEntry) RoutesToLongTerm() bool {
	return m.Importance >= LongTermThreshold
}

// StorageTier names the tier an entry landed in.
type StorageTier string

const (
	TierWorking  StorageTier = "working"
	TierLongTerm StorageTier = "long_term"
)

// TieredMemory holds the working and long-term tiers for one soul. It is
// not safe for concurrent use; the owning engine serializes access.
type TieredMemory struct {
	working  []MemoryEntry
	longTerm []MemoryEntry
}

func NewTieredMemory() *TieredMemory {
	return &TieredMemory{}
}

// Append inserts into working memory. Once the tier exceeds
// WorkingMemoryMax it is re-sorted by descending importance and truncated
// to WorkingMemoryKeep. The sort is stable, so equal-importance entries
// survive in insertion order.
func (t *TieredMemory) Append(e MemoryEntry) {
	t.working = append(t.working, e)
	if len(t.working) > WorkingMemoryMax {
		sort.SliceStable(t.working, func(i, j int) bool {
			return t.working[i].Importance > t.working[j].Importance
		})
		t.working = t.working[:WorkingMemoryKeep:WorkingMemoryKeep]
	}
}

// Promote inserts into long-term memory, dropping oldest entries once the
// tier exceeds LongTermMax. No reordering.
func (t *TieredMemory) Promote(e MemoryEntry) {
	t.longTerm = append(t.longTerm, e)
	if n := len(t.longTerm); n > LongTermMax {
		t.longTerm = t.longTerm[n-LongTermMax:]
	}
}

// Insert routes the entry by importance and reports the receiving tier.
func (t *TieredMemory) Insert(e MemoryEntry) StorageTier {
	if e.RoutesToLongTerm() {
		t.Promote(e)
		return TierLongTerm
	}
	t.Append(e)
	return TierWorking
}

func (t *TieredMemory) WorkingCount() int {
	return len(t.working)
}

func (t *TieredMemory) LongTermCount() int {
	return len(t.longTerm)
}

func (t *TieredMemory) TotalCount() int {
	return len(t.working) + len(t.longTerm)
}

// WorkingSnapshot returns a copy of the working tier in insertion order.
func (t *TieredMemory) WorkingSnapshot() []MemoryEntry {
	out := make([]MemoryEntry, len(t.working))
	copy(out, t.working)
	return out
}

// LongTermSnapshot returns a copy of the long-term tier in insertion order.
func (t *TieredMemory) LongTermSnapshot() []MemoryEntry {
	out := make([]MemoryEntry, len(t.longTerm))
	copy(out, t.longTerm)
	return out
}

// Restore replaces both tiers from persisted state, keeping only the newest
// entries if a record exceeds its cap.
func (t *TieredMemory) Restore(working, longTerm []MemoryEntry) {
	if n := len(working); n > WorkingMemoryMax {
		working = working[n-WorkingMemoryMax:]
	}
	if n := len(longTerm); n > LongTermMax {
		longTerm = longTerm[n-LongTermMax:]
	}
	t.working = append([]MemoryEntry(nil), working...)
	t.longTerm = append([]MemoryEntry(nil), longTerm...)
}
