package client

import (
	"context"
	"errors"

	"github.com/animakit/anima/internal/buildconfig"
	"github.com/animakit/anima/internal/domain"
	"github.com/animakit/anima/internal/service"
)

// ErrNoJournal is returned by Local.Journal when no journal store was
// attached.
var ErrNoJournal = errors.New("journal not available")

// Local drives a soul engine living in the same process.
type Local struct {
	svc     *service.SoulService
	journal domain.JournalStore
}

func NewLocal(svc *service.SoulService, journal domain.JournalStore) *Local {
	return &Local{svc: svc, journal: journal}
}

func (l *Local) Health(ctx context.Context) (*HealthResult, error) {
	if _, err := l.svc.State(ctx); err != nil {
		return nil, err
	}
	return &HealthResult{
		Status:  "ok",
		Soul:    l.svc.Name(),
		Version: buildconfig.Version(),
	}, nil
}

func (l *Local) State(ctx context.Context) (*StateResult, error) {
	state, err := l.svc.State(ctx)
	if err != nil {
		return nil, err
	}
	return &StateResult{
		Name:               state.Name,
		MentalProcess:      state.MentalProcess,
		EmotionalState:     state.EmotionalState,
		Personality:        state.Personality,
		WorkingMemorySize:  state.WorkingMemorySize,
		LongTermMemorySize: state.LongTermMemorySize,
	}, nil
}

func (l *Local) Perceive(ctx context.Context, text, kind string) (*PerceiveResult, error) {
	result, err := l.svc.Perceive(ctx, text, kind)
	if err != nil {
		return nil, err
	}
	return &PerceiveResult{
		Response:         result.Response,
		EmotionalState:   result.EmotionalState,
		MentalProcess:    result.MentalProcess,
		PersistenceError: persistenceError(result.Persistence),
	}, nil
}

func (l *Local) Transition(ctx context.Context, target, reason string) (*TransitionResult, error) {
	result, err := l.svc.Transition(ctx, target, reason)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{
		OldProcess:       result.OldProcess,
		NewProcess:       result.NewProcess,
		Reason:           result.Reason,
		PersistenceError: persistenceError(result.Persistence),
	}, nil
}

func (l *Local) AddMemory(ctx context.Context, content, kind string, importance float64) (*AddMemoryResult, error) {
	result, err := l.svc.AddMemory(ctx, content, kind, importance)
	if err != nil {
		return nil, err
	}
	return &AddMemoryResult{
		StoredIn:         result.StoredIn,
		TotalMemories:    result.TotalMemories,
		PersistenceError: persistenceError(result.Persistence),
	}, nil
}

func (l *Local) Journal(ctx context.Context, limit int) (*JournalResult, error) {
	if l.journal == nil {
		return nil, ErrNoJournal
	}
	entries, err := l.journal.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	count, err := l.journal.Count(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &JournalResult{Entries: entries, Count: count}, nil
}

func persistenceError(p service.PersistStatus) string {
	if p.Err != nil {
		return p.Err.Error()
	}
	return ""
}

var _ Driver = (*Local)(nil)
