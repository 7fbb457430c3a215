// Package client provides drivers for reaching a soul: over HTTP, in
// process, or remote-first with an in-process fallback.
package client

import (
	"context"

	"github.com/animakit/anima/internal/domain"
)

// Stage names which driver served a call.
type Stage string

const (
	StageRemote Stage = "remote"
	StageLocal  Stage = "local"
)

type HealthResult struct {
	Status  string `json:"status"`
	Soul    string `json:"soul"`
	Version string `json:"version"`
}

type StateResult struct {
	Name               string                `json:"name"`
	MentalProcess      domain.MentalProcess  `json:"mental_process"`
	EmotionalState     domain.EmotionalState `json:"emotional_state"`
	Personality        map[string]float64    `json:"personality"`
	WorkingMemorySize  int                   `json:"working_memory_size"`
	LongTermMemorySize int                   `json:"long_term_memory_size"`
}

type PerceiveResult struct {
	Response         string                `json:"response"`
	EmotionalState   domain.EmotionalState `json:"emotional_state"`
	MentalProcess    domain.MentalProcess  `json:"mental_process"`
	PersistenceError string                `json:"persistence_error,omitempty"`
}

type TransitionResult struct {
	OldProcess       domain.MentalProcess `json:"old_process"`
	NewProcess       domain.MentalProcess `json:"new_process"`
	Reason           string               `json:"reason,omitempty"`
	PersistenceError string               `json:"persistence_error,omitempty"`
}

type AddMemoryResult struct {
	StoredIn         domain.StorageTier `json:"stored_in"`
	TotalMemories    int                `json:"total_memories"`
	PersistenceError string             `json:"persistence_error,omitempty"`
}

type JournalResult struct {
	Entries []domain.JournalEntry `json:"entries"`
	Count   int64                 `json:"count"`
}

// Driver is one way of reaching a soul. Importance below zero on AddMemory
// means unspecified; the engine applies its default.
type Driver interface {
	Health(ctx context.Context) (*HealthResult, error)
	State(ctx context.Context) (*StateResult, error)
	Perceive(ctx context.Context, text, kind string) (*PerceiveResult, error)
	Transition(ctx context.Context, target, reason string) (*TransitionResult, error)
	AddMemory(ctx context.Context, content, kind string, importance float64) (*AddMemoryResult, error)
	Journal(ctx context.Context, limit int) (*JournalResult, error)
}
