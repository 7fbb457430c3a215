// Package store provides the persistence backends: a two-record JSON
// snapshot store for soul state and a SQLite-backed operation journal.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/domain"
)

const (
	memoryFile = "working_memory.json"
	stateFile  = "soul_state.json"
)

// memoryRecord is the on-disk shape of both memory tiers.
type memoryRecord struct {
	WorkingMemory  []domain.MemoryEntry `json:"working_memory"`
	LongTermMemory []domain.MemoryEntry `json:"long_term_memory"`
}

// stateRecord is the on-disk shape of the behavioral state.
type stateRecord struct {
	EmotionalState domain.EmotionalState `json:"emotional_state"`
	MentalProcess  domain.MentalProcess  `json:"mental_process"`
}

// FileSnapshotStore persists snapshots as two indented JSON files under a
// single directory. Writes go through a temp file and rename so a crash
// mid-write never leaves a partially written record behind.
type FileSnapshotStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileSnapshotStore(dir string, logger *zap.Logger) (*FileSnapshotStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FileSnapshotStore{dir: dir, logger: logger}, nil
}

// Save overwrites both records in full. The memory record is written first;
// if it fails the state record is left untouched.
func (s *FileSnapshotStore) Save(_ context.Context, snap domain.Snapshot) error {
	mem := memoryRecord{
		WorkingMemory:  snap.WorkingMemory,
		LongTermMemory: snap.LongTermMemory,
	}
	if mem.WorkingMemory == nil {
		mem.WorkingMemory = []domain.MemoryEntry{}
	}
	if mem.LongTermMemory == nil {
		mem.LongTermMemory = []domain.MemoryEntry{}
	}
	if err := s.writeRecord(memoryFile, mem); err != nil {
		return fmt.Errorf("failed to write memory record: %w", err)
	}

	state := stateRecord{
		EmotionalState: snap.EmotionalState,
		MentalProcess:  snap.MentalProcess,
	}
	if err := s.writeRecord(stateFile, state); err != nil {
		return fmt.Errorf("failed to write state record: %w", err)
	}
	return nil
}

// Load reads whichever records exist. A record that is missing or fails to
// parse contributes nothing; a corrupt record is logged and skipped rather
// than aborting the load. Returns nil when neither record was usable.
func (s *FileSnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	loaded := false

	var mem memoryRecord
	switch ok, err := s.readRecord(memoryFile, &mem); {
	case err != nil:
		s.logger.Warn("skipping unreadable memory record",
			zap.String("file", memoryFile),
			zap.Error(err))
	case ok:
		snap.WorkingMemory = mem.WorkingMemory
		snap.LongTermMemory = mem.LongTermMemory
		loaded = true
	}

	var state stateRecord
	switch ok, err := s.readRecord(stateFile, &state); {
	case err != nil:
		s.logger.Warn("skipping unreadable state record",
			zap.String("file", stateFile),
			zap.Error(err))
	case ok:
		snap.EmotionalState = state.EmotionalState
		snap.MentalProcess = state.MentalProcess
		loaded = true
	}

	if !loaded {
		return nil, nil
	}
	return &snap, nil
}

// Path returns where a record lives on disk.
func (s *FileSnapshotStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileSnapshotStore) writeRecord(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// readRecord reports (false, nil) when the file does not exist.
func (s *FileSnapshotStore) readRecord(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

var _ domain.SnapshotStore = (*FileSnapshotStore)(nil)
