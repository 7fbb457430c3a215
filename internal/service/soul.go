// Package service implements the soul engine: perception, transitions,
// memory writes and snapshot persistence behind a single lock.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/domain"
)

var (
	// ErrNotInitialized is returned when the service has no soul to operate on.
	ErrNotInitialized = errors.New("soul not initialized")
	// ErrInvalidProcess is returned for transition targets outside the known set.
	ErrInvalidProcess = errors.New("invalid mental process")
	// ErrEmptyContent is returned when a memory has no content to store.
	ErrEmptyContent = errors.New("memory content is empty")
)

const (
	// playfulBoost is added to playfulness on an explicit transition to playful.
	playfulBoost = 0.20
	// restingBoost is the energy recovered on an explicit transition to resting.
	restingBoost = 0.10
	// journalDetailMax caps how much perception or memory text lands in a
	// journal row.
	journalDetailMax = 200

	// defaultImportance applies when a memory arrives without one.
	defaultImportance = 0.5
)

// PersistStatus reports whether the post-operation snapshot reached disk.
// A failed save never fails the operation itself; the in-memory state has
// already changed and callers are told so they can surface the problem.
type PersistStatus struct {
	Persisted bool
	Err       error
}

type PerceiveResult struct {
	Response       string
	EmotionalState domain.EmotionalState
	MentalProcess  domain.MentalProcess
	Persistence    PersistStatus
}

type TransitionResult struct {
	OldProcess  domain.MentalProcess
	NewProcess  domain.MentalProcess
	Reason      string
	Persistence PersistStatus
}

type AddMemoryResult struct {
	StoredIn      domain.StorageTier
	TotalMemories int
	Persistence   PersistStatus
}

type StateResult struct {
	Name               string
	MentalProcess      domain.MentalProcess
	EmotionalState     domain.EmotionalState
	Personality        map[string]float64
	WorkingMemorySize  int
	LongTermMemorySize int
}

// SoulService serializes all access to one soul. Every operation takes the
// lock for its full duration, including the snapshot write, so persisted
// state always matches some consistent in-memory state.
type SoulService struct {
	mu        sync.Mutex
	soul      *domain.Soul
	snapshots domain.SnapshotStore
	journal   domain.JournalStore
	logger    *zap.Logger
}

// NewSoulService wires a soul to its stores. The journal may be nil, in
// which case operations simply go unjournaled.
func NewSoulService(soul *domain.Soul, snapshots domain.SnapshotStore, journal domain.JournalStore, logger *zap.Logger) *SoulService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoulService{
		soul:      soul,
		snapshots: snapshots,
		journal:   journal,
		logger:    logger,
	}
}

// Name returns the soul's identity name, or "" when uninitialized.
func (s *SoulService) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soul == nil {
		return ""
	}
	return s.soul.Name
}

// Perceive runs the full pipeline for one stimulus: record it, update the
// emotional state, select the mental process and render the response. The
// perception entry captures the emotional state as it was before the
// update.
func (s *SoulService) Perceive(ctx context.Context, text, kind string) (*PerceiveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soul == nil {
		return nil, ErrNotInitialized
	}
	if kind == "" {
		kind = domain.KindObservation
	}

	entry := domain.NewMemoryEntry(kind, text, 0)
	entry.EmotionalContext = s.soul.Emotions.Clone()
	s.soul.Memory.Append(entry)

	fired := domain.ApplyEmotionRules(s.soul.Emotions, text, kind)
	s.soul.Process = domain.SelectProcess(text, kind, s.soul.Emotions)
	response := domain.ResponseFor(s.soul.Name, s.soul.Process, s.soul.Responses)

	persistence := s.persist(ctx)
	s.journalOp(ctx, domain.OpPerceive, kind, truncate(text), s.soul.Process)

	s.logger.Info("perceived",
		zap.String("kind", kind),
		zap.Strings("rules_fired", fired),
		zap.String("mental_process", string(s.soul.Process)))

	return &PerceiveResult{
		Response:       response,
		EmotionalState: s.soul.Emotions.Clone(),
		MentalProcess:  s.soul.Process,
		Persistence:    persistence,
	}, nil
}

// Transition forces the soul into a named mental process. Entering playful
// or resting nudges the matching emotion channel.
func (s *SoulService) Transition(ctx context.Context, target, reason string) (*TransitionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soul == nil {
		return nil, ErrNotInitialized
	}
	if !domain.ValidMentalProcess(target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProcess, target)
	}

	old := s.soul.Process
	next := domain.MentalProcess(target)
	s.soul.Process = next

	switch next {
	case domain.ProcessPlayful:
		s.soul.Emotions.Adjust(domain.ChannelPlayfulness, playfulBoost, 0)
	case domain.ProcessResting:
		s.soul.Emotions.Adjust(domain.ChannelEnergy, restingBoost, 0)
	}

	persistence := s.persist(ctx)
	s.journalOp(ctx, domain.OpTransition, "", truncate(reason), next)

	s.logger.Info("transitioned",
		zap.String("from", string(old)),
		zap.String("to", string(next)),
		zap.String("reason", reason))

	return &TransitionResult{
		OldProcess:  old,
		NewProcess:  next,
		Reason:      reason,
		Persistence: persistence,
	}, nil
}

// AddMemory stores an explicit memory, routing it to working or long-term
// storage by importance. Importance below zero means "unspecified" and
// takes the default.
func (s *SoulService) AddMemory(ctx context.Context, content, kind string, importance float64) (*AddMemoryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soul == nil {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if kind == "" {
		kind = domain.KindExperience
	}
	if importance < 0 {
		importance = defaultImportance
	}

	entry := domain.NewMemoryEntry(kind, content, importance)
	entry.EmotionalContext = s.soul.Emotions.Clone()
	tier := s.soul.Memory.Insert(entry)

	persistence := s.persist(ctx)
	s.journalOp(ctx, domain.OpAddMemory, kind, truncate(content), s.soul.Process)

	s.logger.Info("memory added",
		zap.String("kind", kind),
		zap.String("stored_in", string(tier)),
		zap.Float64("importance", entry.Importance))

	return &AddMemoryResult{
		StoredIn:      tier,
		TotalMemories: s.soul.Memory.TotalCount(),
		Persistence:   persistence,
	}, nil
}

// State returns a read-only view of the soul. All maps are copies.
func (s *SoulService) State(_ context.Context) (*StateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soul == nil {
		return nil, ErrNotInitialized
	}
	return &StateResult{
		Name:               s.soul.Name,
		MentalProcess:      s.soul.Process,
		EmotionalState:     s.soul.Emotions.Clone(),
		Personality:        s.soul.PersonalitySnapshot(),
		WorkingMemorySize:  s.soul.Memory.WorkingCount(),
		LongTermMemorySize: s.soul.Memory.LongTermCount(),
	}, nil
}

// Load restores persisted state over the soul's defaults. Unknown emotion
// channels in the snapshot are dropped; levels are clamped. The mental
// process is restored as-is even if unrecognized, the response table just
// falls back to a generic line for it. No saved state is not an error.
func (s *SoulService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soul == nil {
		return ErrNotInitialized
	}
	if s.snapshots == nil {
		return nil
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load soul state: %w", err)
	}
	if snap == nil {
		s.logger.Info("no saved soul state, starting fresh")
		return nil
	}

	for c, v := range snap.EmotionalState {
		if domain.ValidChannel(string(c)) {
			s.soul.Emotions[c] = domain.Clamp01(v)
		}
	}
	if snap.MentalProcess != "" {
		s.soul.Process = snap.MentalProcess
	}
	s.soul.Memory.Restore(snap.WorkingMemory, snap.LongTermMemory)

	s.logger.Info("restored soul state",
		zap.String("mental_process", string(s.soul.Process)),
		zap.Int("working_memory", s.soul.Memory.WorkingCount()),
		zap.Int("long_term_memory", s.soul.Memory.LongTermCount()))
	return nil
}

// persist writes the current snapshot. Must be called with the lock held.
func (s *SoulService) persist(ctx context.Context) PersistStatus {
	if s.snapshots == nil {
		return PersistStatus{}
	}
	snap := domain.Snapshot{
		WorkingMemory:  s.soul.Memory.WorkingSnapshot(),
		LongTermMemory: s.soul.Memory.LongTermSnapshot(),
		EmotionalState: s.soul.Emotions.Clone(),
		MentalProcess:  s.soul.Process,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.logger.Warn("failed to persist soul state", zap.Error(err))
		return PersistStatus{Err: err}
	}
	return PersistStatus{Persisted: true}
}

// journalOp appends one journal row. Journal failures are logged, never
// surfaced.
func (s *SoulService) journalOp(ctx context.Context, op, kind, detail string, p domain.MentalProcess) {
	if s.journal == nil {
		return
	}
	e := &domain.JournalEntry{Op: op, Kind: kind, Detail: detail, MentalProcess: p}
	if err := s.journal.Append(ctx, e); err != nil {
		s.logger.Warn("failed to journal operation",
			zap.String("op", op),
			zap.Error(err))
	}
}

func truncate(s string) string {
	if len(s) <= journalDetailMax {
		return s
	}
	return s[:journalDetailMax]
}
