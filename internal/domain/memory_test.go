package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestNewMemoryEntry(t *testing.T) {
	e := NewMemoryEntry(KindObservation, "saw a leaf", 0.4)
	if e.ID == "" {
		t.Error("ID is empty")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if e.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", e.CreatedAt.Location())
	}
	if e.Kind != KindObservation || e.Content != "saw a leaf" || e.Importance != 0.4 {
		t.Errorf("entry = %+v, want kind/content/importance preserved", e)
	}
}

func TestNewMemoryEntry_ClampsImportance(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.2, 0},
		{0.5, 0.5},
		{1.3, 1},
	}
	for _, tt := range tests {
		if got := NewMemoryEntry(KindExperience, "x", tt.in).Importance; got != tt.want {
			t.Errorf("importance %v stored as %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoutesToLongTerm(t *testing.T) {
	tests := []struct {
		importance float64
		want       bool
	}{
		{0.0, false},
		{0.5, false},
		{0.69, false},
		{0.7, true},
		{0.71, true},
		{1.0, true},
	}
	for _, tt := range tests {
		e := MemoryEntry{Importance: tt.importance}
		if got := e.RoutesToLongTerm(); got != tt.want {
			t.Errorf("RoutesToLongTerm() with importance %v = %v, want %v", tt.importance, got, tt.want)
		}
	}
}

func TestInsert_RoutesByImportance(t *testing.T) {
	mem := NewTieredMemory()

	if tier := mem.Insert(NewMemoryEntry(KindObservation, "minor", 0.3)); tier != TierWorking {
		t.Errorf("Insert(0.3) = %v, want %v", tier, TierWorking)
	}
	if tier := mem.Insert(NewMemoryEntry(KindExperience, "threshold", 0.7)); tier != TierLongTerm {
		t.Errorf("Insert(0.7) = %v, want %v", tier, TierLongTerm)
	}
	if tier := mem.Insert(NewMemoryEntry(KindReflection, "major", 0.9)); tier != TierLongTerm {
		t.Errorf("Insert(0.9) = %v, want %v", tier, TierLongTerm)
	}

	if mem.WorkingCount() != 1 {
		t.Errorf("WorkingCount() = %d, want 1", mem.WorkingCount())
	}
	if mem.LongTermCount() != 2 {
		t.Errorf("LongTermCount() = %d, want 2", mem.LongTermCount())
	}
	if mem.TotalCount() != 3 {
		t.Errorf("TotalCount() = %d, want 3", mem.TotalCount())
	}
}

func TestAppend_NoEvictionAtCap(t *testing.T) {
	mem := NewTieredMemory()
	for i := 0; i < WorkingMemoryMax; i++ {
		mem.Append(NewMemoryEntry(KindObservation, fmt.Sprintf("m%d", i), 0.1))
	}
	if mem.WorkingCount() != WorkingMemoryMax {
		t.Errorf("WorkingCount() = %d, want %d", mem.WorkingCount(), WorkingMemoryMax)
	}
}

func TestAppend_EvictionKeepsMostImportant(t *testing.T) {
	mem := NewTieredMemory()
	for i := 0; i <= WorkingMemoryMax; i++ {
		mem.Append(NewMemoryEntry(KindObservation, fmt.Sprintf("m%d", i), float64(i)/1000))
	}

	if mem.WorkingCount() != WorkingMemoryKeep {
		t.Fatalf("WorkingCount() = %d, want %d", mem.WorkingCount(), WorkingMemoryKeep)
	}

	kept := mem.WorkingSnapshot()
	if kept[0].Content != "m100" {
		t.Errorf("kept[0] = %q, want m100", kept[0].Content)
	}
	if kept[len(kept)-1].Content != "m51" {
		t.Errorf("kept[last] = %q, want m51", kept[len(kept)-1].Content)
	}
	for _, e := range kept {
		if e.Importance < 0.051 {
			t.Errorf("low-importance entry %q survived eviction", e.Content)
		}
	}
}

func TestAppend_EvictionTieBreaksByInsertionOrder(t *testing.T) {
	mem := NewTieredMemory()
	for i := 0; i <= WorkingMemoryMax; i++ {
		mem.Append(NewMemoryEntry(KindObservation, fmt.Sprintf("m%d", i), 0.5))
	}

	kept := mem.WorkingSnapshot()
	if len(kept) != WorkingMemoryKeep {
		t.Fatalf("kept %d entries, want %d", len(kept), WorkingMemoryKeep)
	}
	for i, e := range kept {
		if want := fmt.Sprintf("m%d", i); e.Content != want {
			t.Fatalf("kept[%d] = %q, want %q", i, e.Content, want)
		}
	}
}

func TestPromote_DropsOldestPastCap(t *testing.T) {
	mem := NewTieredMemory()
	for i := 0; i < LongTermMax+3; i++ {
		mem.Promote(NewMemoryEntry(KindReflection, fmt.Sprintf("m%d", i), 0.8))
	}

	if mem.LongTermCount() != LongTermMax {
		t.Fatalf("LongTermCount() = %d, want %d", mem.LongTermCount(), LongTermMax)
	}

	kept := mem.LongTermSnapshot()
	if kept[0].Content != "m3" {
		t.Errorf("kept[0] = %q, want m3", kept[0].Content)
	}
	if kept[len(kept)-1].Content != fmt.Sprintf("m%d", LongTermMax+2) {
		t.Errorf("kept[last] = %q, want m%d", kept[len(kept)-1].Content, LongTermMax+2)
	}
}

func TestSnapshots_AreCopies(t *testing.T) {
	mem := NewTieredMemory()
	mem.Append(NewMemoryEntry(KindObservation, "original", 0.2))

	snap := mem.WorkingSnapshot()
	snap[0].Content = "mutated"

	if got := mem.WorkingSnapshot()[0].Content; got != "original" {
		t.Errorf("internal entry = %q, want original", got)
	}
}

func TestRestore(t *testing.T) {
	var working, longTerm []MemoryEntry
	for i := 0; i < WorkingMemoryMax+20; i++ {
		working = append(working, NewMemoryEntry(KindObservation, fmt.Sprintf("w%d", i), 0.1))
	}
	for i := 0; i < 5; i++ {
		longTerm = append(longTerm, NewMemoryEntry(KindReflection, fmt.Sprintf("l%d", i), 0.9))
	}

	mem := NewTieredMemory()
	mem.Restore(working, longTerm)

	if mem.WorkingCount() != WorkingMemoryMax {
		t.Errorf("WorkingCount() = %d, want %d", mem.WorkingCount(), WorkingMemoryMax)
	}
	if got := mem.WorkingSnapshot()[0].Content; got != "w20" {
		t.Errorf("oldest surviving entry = %q, want w20", got)
	}
	if mem.LongTermCount() != 5 {
		t.Errorf("LongTermCount() = %d, want 5", mem.LongTermCount())
	}

	working[len(working)-1].Content = "mutated"
	if got := mem.WorkingSnapshot()[mem.WorkingCount()-1].Content; got == "mutated" {
		t.Error("Restore aliased the caller's slice")
	}
}
