package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/animakit/anima/internal/domain"
)

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if snap, ok := args.Get(0).(*domain.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockJournalStore struct {
	mock.Mock
}

func (m *MockJournalStore) Append(ctx context.Context, e *domain.JournalEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockJournalStore) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, limit)
	if entries, ok := args.Get(0).([]domain.JournalEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(snapshots *MockSnapshotStore, journal *MockJournalStore) *SoulService {
	soul := domain.NewSoul("Dot", nil, nil, nil)
	var snapStore domain.SnapshotStore
	if snapshots != nil {
		snapStore = snapshots
	}
	var journalStore domain.JournalStore
	if journal != nil {
		journalStore = journal
	}
	return NewSoulService(soul, snapStore, journalStore, zap.NewNop())
}

func TestPerceive_Pipeline(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.Perceive(context.Background(), "I wonder why the sky is blue?", "")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProcessCurious, result.MentalProcess)
	assert.Equal(t, "*Dot's eyes light up with curiosity*", result.Response)
	assert.InDelta(t, 1.0, result.EmotionalState[domain.ChannelCuriosity], 1e-9)

	state, err := svc.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, state.WorkingMemorySize)
	assert.Equal(t, 0, state.LongTermMemorySize)
}

func TestPerceive_JournalsWithDefaultKind(t *testing.T) {
	journal := new(MockJournalStore)
	journal.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.JournalEntry) bool {
		return e.Op == domain.OpPerceive &&
			e.Kind == domain.KindObservation &&
			e.Detail == "hello there"
	})).Return(nil)

	svc := newTestService(nil, journal)
	_, err := svc.Perceive(context.Background(), "hello there", "")
	assert.NoError(t, err)
	journal.AssertExpectations(t)
}

func TestPerceive_JournalFailureDoesNotFailOperation(t *testing.T) {
	journal := new(MockJournalStore)
	journal.On("Append", mock.Anything, mock.Anything).Return(errors.New("db locked"))

	svc := newTestService(nil, journal)
	result, err := svc.Perceive(context.Background(), "hello", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Response)
	journal.AssertExpectations(t)
}

func TestPerceive_EntryCapturesPreUpdateEmotions(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snapshots.On("Save", mock.Anything, mock.MatchedBy(func(snap domain.Snapshot) bool {
		if len(snap.WorkingMemory) != 1 {
			return false
		}
		entry := snap.WorkingMemory[0]
		// The entry keeps the state from before the inquiry bump; the
		// snapshot itself carries the updated state.
		return entry.EmotionalContext[domain.ChannelCuriosity] == 0.9 &&
			snap.EmotionalState[domain.ChannelCuriosity] == 1.0
	})).Return(nil)

	svc := newTestService(snapshots, nil)
	result, err := svc.Perceive(context.Background(), "why though?", "")
	assert.NoError(t, err)
	assert.True(t, result.Persistence.Persisted)
	assert.NoError(t, result.Persistence.Err)
	snapshots.AssertExpectations(t)
}

func TestPerceive_SaveFailureDoesNotFailOperation(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snapshots.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := newTestService(snapshots, nil)
	result, err := svc.Perceive(context.Background(), "hello", "")
	assert.NoError(t, err)
	assert.False(t, result.Persistence.Persisted)
	assert.ErrorContains(t, result.Persistence.Err, "disk full")

	// The in-memory update still happened.
	state, err := svc.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, state.WorkingMemorySize)
}

func TestPerceive_NotInitialized(t *testing.T) {
	svc := NewSoulService(nil, nil, nil, zap.NewNop())
	_, err := svc.Perceive(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestTransition(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.Transition(context.Background(), "contemplating", "quiet hour")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProcessIdle, result.OldProcess)
	assert.Equal(t, domain.ProcessContemplating, result.NewProcess)
	assert.Equal(t, "quiet hour", result.Reason)

	state, err := svc.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.ProcessContemplating, state.MentalProcess)
}

func TestTransition_InvalidTarget(t *testing.T) {
	svc := newTestService(nil, nil)
	_, err := svc.Transition(context.Background(), "daydreaming", "")
	assert.ErrorIs(t, err, ErrInvalidProcess)
}

func TestTransition_PlayfulBoostsPlayfulness(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.Transition(context.Background(), "playful", "")
	assert.NoError(t, err)
	assert.Equal(t, domain.ProcessPlayful, result.NewProcess)

	state, _ := svc.State(context.Background())
	assert.InDelta(t, 0.8, state.EmotionalState[domain.ChannelPlayfulness], 1e-9)
}

func TestTransition_RestingRecoversEnergy(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.Transition(context.Background(), "resting", "tired")
	assert.NoError(t, err)

	state, _ := svc.State(context.Background())
	assert.InDelta(t, 0.9, state.EmotionalState[domain.ChannelEnergy], 1e-9)
}

func TestAddMemory_RoutesByImportance(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	low, err := svc.AddMemory(ctx, "saw a pebble", "", 0.3)
	assert.NoError(t, err)
	assert.Equal(t, domain.TierWorking, low.StoredIn)
	assert.Equal(t, 1, low.TotalMemories)

	high, err := svc.AddMemory(ctx, "met a friend", "", 0.9)
	assert.NoError(t, err)
	assert.Equal(t, domain.TierLongTerm, high.StoredIn)
	assert.Equal(t, 2, high.TotalMemories)

	threshold, err := svc.AddMemory(ctx, "warm afternoon", "", 0.7)
	assert.NoError(t, err)
	assert.Equal(t, domain.TierLongTerm, threshold.StoredIn)
}

func TestAddMemory_DefaultsKindAndImportance(t *testing.T) {
	journal := new(MockJournalStore)
	journal.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.JournalEntry) bool {
		return e.Op == domain.OpAddMemory && e.Kind == domain.KindExperience
	})).Return(nil)

	svc := newTestService(nil, journal)
	result, err := svc.AddMemory(context.Background(), "a quiet walk", "", -1)
	assert.NoError(t, err)
	// Default importance 0.5 stays below the long-term threshold.
	assert.Equal(t, domain.TierWorking, result.StoredIn)
	journal.AssertExpectations(t)
}

func TestAddMemory_RejectsEmptyContent(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.AddMemory(context.Background(), "", "", 0.5)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.AddMemory(context.Background(), "   ", "", 0.5)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestState_ReturnsCopies(t *testing.T) {
	svc := newTestService(nil, nil)

	first, err := svc.State(context.Background())
	assert.NoError(t, err)
	first.EmotionalState[domain.ChannelEnergy] = 0
	first.Personality["humor"] = 0

	second, err := svc.State(context.Background())
	assert.NoError(t, err)
	assert.InDelta(t, 0.8, second.EmotionalState[domain.ChannelEnergy], 1e-9)
	assert.InDelta(t, 0.6, second.Personality["humor"], 1e-9)
}

func TestLoad_RestoresSnapshot(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snapshots.On("Load", mock.Anything).Return(&domain.Snapshot{
		WorkingMemory: []domain.MemoryEntry{
			domain.NewMemoryEntry(domain.KindObservation, "old sight", 0.2),
		},
		LongTermMemory: []domain.MemoryEntry{
			domain.NewMemoryEntry(domain.KindReflection, "old thought", 0.8),
		},
		EmotionalState: domain.EmotionalState{
			domain.ChannelEnergy: 0.42,
			"rage":               0.9,
		},
		MentalProcess: domain.ProcessResting,
	}, nil)

	svc := newTestService(snapshots, nil)
	assert.NoError(t, svc.Load(context.Background()))

	state, err := svc.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, domain.ProcessResting, state.MentalProcess)
	assert.InDelta(t, 0.42, state.EmotionalState[domain.ChannelEnergy], 1e-9)
	assert.NotContains(t, state.EmotionalState, domain.Channel("rage"))
	// Channels the snapshot does not mention keep their defaults.
	assert.InDelta(t, 0.9, state.EmotionalState[domain.ChannelCuriosity], 1e-9)
	assert.Equal(t, 1, state.WorkingMemorySize)
	assert.Equal(t, 1, state.LongTermMemorySize)
}

func TestLoad_ClampsSnapshotLevels(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snapshots.On("Load", mock.Anything).Return(&domain.Snapshot{
		EmotionalState: domain.EmotionalState{domain.ChannelCuriosity: 1.7},
	}, nil)

	svc := newTestService(snapshots, nil)
	assert.NoError(t, svc.Load(context.Background()))

	state, _ := svc.State(context.Background())
	assert.InDelta(t, 1.0, state.EmotionalState[domain.ChannelCuriosity], 1e-9)
}

func TestLoad_NothingSaved(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snapshots.On("Load", mock.Anything).Return(nil, nil)

	svc := newTestService(snapshots, nil)
	assert.NoError(t, svc.Load(context.Background()))

	state, _ := svc.State(context.Background())
	assert.Equal(t, domain.ProcessIdle, state.MentalProcess)
	assert.Equal(t, 0, state.WorkingMemorySize)
}

func TestLoad_KeepsUnknownProcessFromSnapshot(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snapshots.On("Load", mock.Anything).Return(&domain.Snapshot{
		MentalProcess: domain.MentalProcess("daydreaming"),
	}, nil)

	svc := newTestService(snapshots, nil)
	assert.NoError(t, svc.Load(context.Background()))

	state, _ := svc.State(context.Background())
	assert.Equal(t, domain.MentalProcess("daydreaming"), state.MentalProcess)
}
