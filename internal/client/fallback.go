package client

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Fallback tries the remote soul first and, when the remote is
// unreachable, drives a second engine instead. A response the remote
// actually produced, even an error response, is returned as-is: the
// remote answered, so retrying elsewhere would just split the soul's
// state for no reason.
type Fallback struct {
	remote Driver
	local  Driver
	logger *zap.Logger

	mu        sync.Mutex
	lastStage Stage
}

func NewFallback(remote, local Driver, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{remote: remote, local: local, logger: logger}
}

// Stage reports which driver served the last call.
func (f *Fallback) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastStage
}

func (f *Fallback) setStage(s Stage) {
	f.mu.Lock()
	f.lastStage = s
	f.mu.Unlock()
}

// shouldFallBack reports whether the error means the remote never
// answered.
func shouldFallBack(err error) bool {
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}

func (f *Fallback) fellBack(op string, err error) {
	f.logger.Warn("remote soul unreachable, using local engine",
		zap.String("op", op),
		zap.Error(err))
	f.setStage(StageLocal)
}

func (f *Fallback) Health(ctx context.Context) (*HealthResult, error) {
	result, err := f.remote.Health(ctx)
	if err == nil {
		f.setStage(StageRemote)
		return result, nil
	}
	if !shouldFallBack(err) {
		f.setStage(StageRemote)
		return nil, err
	}
	f.fellBack("health", err)
	return f.local.Health(ctx)
}

func (f *Fallback) State(ctx context.Context) (*StateResult, error) {
	result, err := f.remote.State(ctx)
	if err == nil {
		f.setStage(StageRemote)
		return result, nil
	}
	if !shouldFallBack(err) {
		f.setStage(StageRemote)
		return nil, err
	}
	f.fellBack("state", err)
	return f.local.State(ctx)
}

func (f *Fallback) Perceive(ctx context.Context, text, kind string) (*PerceiveResult, error) {
	result, err := f.remote.Perceive(ctx, text, kind)
	if err == nil {
		f.setStage(StageRemote)
		return result, nil
	}
	if !shouldFallBack(err) {
		f.setStage(StageRemote)
		return nil, err
	}
	f.fellBack("perceive", err)
	return f.local.Perceive(ctx, text, kind)
}

func (f *Fallback) Transition(ctx context.Context, target, reason string) (*TransitionResult, error) {
	result, err := f.remote.Transition(ctx, target, reason)
	if err == nil {
		f.setStage(StageRemote)
		return result, nil
	}
	if !shouldFallBack(err) {
		f.setStage(StageRemote)
		return nil, err
	}
	f.fellBack("transition", err)
	return f.local.Transition(ctx, target, reason)
}

func (f *Fallback) AddMemory(ctx context.Context, content, kind string, importance float64) (*AddMemoryResult, error) {
	result, err := f.remote.AddMemory(ctx, content, kind, importance)
	if err == nil {
		f.setStage(StageRemote)
		return result, nil
	}
	if !shouldFallBack(err) {
		f.setStage(StageRemote)
		return nil, err
	}
	f.fellBack("add_memory", err)
	return f.local.AddMemory(ctx, content, kind, importance)
}

func (f *Fallback) Journal(ctx context.Context, limit int) (*JournalResult, error) {
	result, err := f.remote.Journal(ctx, limit)
	if err == nil {
		f.setStage(StageRemote)
		return result, nil
	}
	if !shouldFallBack(err) {
		f.setStage(StageRemote)
		return nil, err
	}
	f.fellBack("journal", err)
	return f.local.Journal(ctx, limit)
}

var _ Driver = (*Fallback)(nil)
