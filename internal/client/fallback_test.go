package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animakit/anima/internal/domain"
)

// stubDriver answers every call with canned results tagged by name, or
// with err when one is set.
type stubDriver struct {
	name  string
	err   error
	calls []string
}

func (s *stubDriver) answer(op string) error {
	s.calls = append(s.calls, op)
	return s.err
}

func (s *stubDriver) Health(ctx context.Context) (*HealthResult, error) {
	if err := s.answer("health"); err != nil {
		return nil, err
	}
	return &HealthResult{Status: "ok", Soul: s.name}, nil
}

func (s *stubDriver) State(ctx context.Context) (*StateResult, error) {
	if err := s.answer("state"); err != nil {
		return nil, err
	}
	return &StateResult{Name: s.name}, nil
}

func (s *stubDriver) Perceive(ctx context.Context, text, kind string) (*PerceiveResult, error) {
	if err := s.answer("perceive"); err != nil {
		return nil, err
	}
	return &PerceiveResult{Response: "from " + s.name}, nil
}

func (s *stubDriver) Transition(ctx context.Context, target, reason string) (*TransitionResult, error) {
	if err := s.answer("transition"); err != nil {
		return nil, err
	}
	return &TransitionResult{Reason: s.name}, nil
}

func (s *stubDriver) AddMemory(ctx context.Context, content, kind string, importance float64) (*AddMemoryResult, error) {
	if err := s.answer("add_memory"); err != nil {
		return nil, err
	}
	return &AddMemoryResult{StoredIn: domain.StorageTier(s.name)}, nil
}

func (s *stubDriver) Journal(ctx context.Context, limit int) (*JournalResult, error) {
	if err := s.answer("journal"); err != nil {
		return nil, err
	}
	return &JournalResult{Count: 1}, nil
}

var _ Driver = (*stubDriver)(nil)

func TestFallback_UsesRemoteWhenHealthy(t *testing.T) {
	remote := &stubDriver{name: "remote"}
	local := &stubDriver{name: "local"}
	fb := NewFallback(remote, local, nil)

	result, err := fb.Perceive(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "from remote", result.Response)
	assert.Equal(t, StageRemote, fb.Stage())
	assert.Empty(t, local.calls)
}

func TestFallback_FallsBackOnTransportError(t *testing.T) {
	remote := &stubDriver{name: "remote", err: errors.New("connection refused")}
	local := &stubDriver{name: "local"}
	fb := NewFallback(remote, local, nil)

	result, err := fb.Perceive(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "from local", result.Response)
	assert.Equal(t, StageLocal, fb.Stage())
	assert.Equal(t, []string{"perceive"}, remote.calls)
	assert.Equal(t, []string{"perceive"}, local.calls)
}

func TestFallback_ReturnsAPIErrorsUnchanged(t *testing.T) {
	remote := &stubDriver{name: "remote", err: &APIError{StatusCode: http.StatusBadRequest, Message: "invalid mental process"}}
	local := &stubDriver{name: "local"}
	fb := NewFallback(remote, local, nil)

	_, err := fb.Transition(context.Background(), "flying", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Empty(t, local.calls, "a server that answered is a server that owns the soul")
	assert.Equal(t, StageRemote, fb.Stage())
}

func TestFallback_RecoversWhenRemoteReturns(t *testing.T) {
	remote := &stubDriver{name: "remote", err: errors.New("no route to host")}
	local := &stubDriver{name: "local"}
	fb := NewFallback(remote, local, nil)

	_, err := fb.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageLocal, fb.Stage())

	remote.err = nil
	result, err := fb.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "remote", result.Name)
	assert.Equal(t, StageRemote, fb.Stage())
}

func TestFallback_CoversEveryOperation(t *testing.T) {
	remote := &stubDriver{name: "remote", err: errors.New("dial tcp: timeout")}
	local := &stubDriver{name: "local"}
	fb := NewFallback(remote, local, nil)

	ctx := context.Background()
	_, err := fb.Health(ctx)
	require.NoError(t, err)
	_, err = fb.State(ctx)
	require.NoError(t, err)
	_, err = fb.Perceive(ctx, "hi", "")
	require.NoError(t, err)
	_, err = fb.Transition(ctx, "resting", "tired")
	require.NoError(t, err)
	_, err = fb.AddMemory(ctx, "a walk", "", -1)
	require.NoError(t, err)
	_, err = fb.Journal(ctx, 10)
	require.NoError(t, err)

	want := []string{"health", "state", "perceive", "transition", "add_memory", "journal"}
	assert.Equal(t, want, remote.calls)
	assert.Equal(t, want, local.calls)
}

func TestFallback_LocalFailureSurfaces(t *testing.T) {
	remote := &stubDriver{name: "remote", err: errors.New("connection refused")}
	local := &stubDriver{name: "local", err: errors.New("journal not available")}
	fb := NewFallback(remote, local, nil)

	_, err := fb.Journal(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal not available")
}
