package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/animakit/anima/internal/buildconfig"
)

// Per-operation timeouts. Perception is given longer because it is the
// call a chatty client blocks on.
const (
	healthTimeout   = 5 * time.Second
	perceiveTimeout = 30 * time.Second
	requestTimeout  = 10 * time.Second
)

// APIError is a response the soul server itself produced, as opposed to a
// transport failure. Callers use the distinction to decide whether
// retrying elsewhere could help.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("soul API returned status %d: %s", e.StatusCode, e.Message)
}

// Remote drives a soul server over HTTP.
type Remote struct {
	baseURL    string
	soul       string
	token      string
	httpClient *http.Client

	healthTO   time.Duration
	perceiveTO time.Duration
	requestTO  time.Duration
}

func NewRemote(baseURL, soul, token string) *Remote {
	return &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		soul:       soul,
		token:      token,
		httpClient: &http.Client{},
		healthTO:   healthTimeout,
		perceiveTO: perceiveTimeout,
		requestTO:  requestTimeout,
	}
}

// SetTimeout overrides every per-operation timeout with a single value.
func (r *Remote) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.healthTO = d
	r.perceiveTO = d
	r.requestTO = d
}

// SetTimeouts overrides the per-operation timeouts individually. Values at
// or below zero keep the current setting.
func (r *Remote) SetTimeouts(health, perceive, request time.Duration) {
	if health > 0 {
		r.healthTO = health
	}
	if perceive > 0 {
		r.perceiveTO = perceive
	}
	if request > 0 {
		r.requestTO = request
	}
}

func (r *Remote) soulPath(suffix string) string {
	return "/souls/" + url.PathEscape(r.soul) + suffix
}

func (r *Remote) Health(ctx context.Context) (*HealthResult, error) {
	var out HealthResult
	if err := r.get(ctx, "/health", r.healthTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Remote) State(ctx context.Context) (*StateResult, error) {
	var out StateResult
	if err := r.get(ctx, r.soulPath("/state"), r.requestTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type perceiveRequest struct {
	Perception string `json:"perception"`
	Kind       string `json:"type,omitempty"`
}

func (r *Remote) Perceive(ctx context.Context, text, kind string) (*PerceiveResult, error) {
	var out PerceiveResult
	if err := r.post(ctx, r.soulPath("/perceive"), r.perceiveTO, perceiveRequest{Perception: text, Kind: kind}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type transitionRequest struct {
	NewState string `json:"new_state"`
	Reason   string `json:"reason,omitempty"`
}

func (r *Remote) Transition(ctx context.Context, target, reason string) (*TransitionResult, error) {
	var out TransitionResult
	if err := r.post(ctx, r.soulPath("/transition"), r.requestTO, transitionRequest{NewState: target, Reason: reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type addMemoryRequest struct {
	Content    string   `json:"content"`
	Kind       string   `json:"type,omitempty"`
	Importance *float64 `json:"importance,omitempty"`
}

func (r *Remote) AddMemory(ctx context.Context, content, kind string, importance float64) (*AddMemoryResult, error) {
	req := addMemoryRequest{Content: content, Kind: kind}
	if importance >= 0 {
		req.Importance = &importance
	}

	var out AddMemoryResult
	if err := r.post(ctx, r.soulPath("/memory"), r.requestTO, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Remote) Journal(ctx context.Context, limit int) (*JournalResult, error) {
	path := r.soulPath("/journal")
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var out JournalResult
	if err := r.get(ctx, path, r.requestTO, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Remote) get(ctx context.Context, path string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create soul request: %w", err)
	}
	return r.do(req, out)
}

func (r *Remote) post(ctx context.Context, path string, timeout time.Duration, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal soul request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create soul request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req, out)
}

func (r *Remote) do(req *http.Request, out any) error {
	req.Header.Set("User-Agent", buildconfig.UserAgent())
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("soul request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read soul response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal soul response: %w", err)
	}
	return nil
}

var _ Driver = (*Remote)(nil)
