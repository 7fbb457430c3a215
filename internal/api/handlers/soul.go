package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/animakit/anima/internal/domain"
	"github.com/animakit/anima/internal/service"
)

type SoulHandler struct {
	svc *service.SoulService
}

func NewSoulHandler(svc *service.SoulService) *SoulHandler {
	return &SoulHandler{svc: svc}
}

type stateResponse struct {
	Name               string                `json:"name"`
	MentalProcess      domain.MentalProcess  `json:"mental_process"`
	EmotionalState     domain.EmotionalState `json:"emotional_state"`
	Personality        map[string]float64    `json:"personality"`
	WorkingMemorySize  int                   `json:"working_memory_size"`
	LongTermMemorySize int                   `json:"long_term_memory_size"`
}

func (h *SoulHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.State(r.Context())
	if err != nil {
		handleSoulError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Name:               state.Name,
		MentalProcess:      state.MentalProcess,
		EmotionalState:     state.EmotionalState,
		Personality:        state.Personality,
		WorkingMemorySize:  state.WorkingMemorySize,
		LongTermMemorySize: state.LongTermMemorySize,
	})
}

type perceiveRequest struct {
	Perception string `json:"perception"`
	Kind       string `json:"type,omitempty"`
}

type perceiveResponse struct {
	Response         string                `json:"response"`
	EmotionalState   domain.EmotionalState `json:"emotional_state"`
	MentalProcess    domain.MentalProcess  `json:"mental_process"`
	PersistenceError string                `json:"persistence_error,omitempty"`
}

// Perceive accepts any text, including empty, and any kind; unknown kinds
// simply fire no kind-specific rules.
func (h *SoulHandler) Perceive(w http.ResponseWriter, r *http.Request) {
	var req perceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Perceive(r.Context(), req.Perception, req.Kind)
	if err != nil {
		handleSoulError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, perceiveResponse{
		Response:         result.Response,
		EmotionalState:   result.EmotionalState,
		MentalProcess:    result.MentalProcess,
		PersistenceError: persistenceError(result.Persistence),
	})
}

type transitionRequest struct {
	NewState string `json:"new_state"`
	Reason   string `json:"reason,omitempty"`
}

type transitionResponse struct {
	OldProcess       domain.MentalProcess `json:"old_process"`
	NewProcess       domain.MentalProcess `json:"new_process"`
	Reason           string               `json:"reason,omitempty"`
	PersistenceError string               `json:"persistence_error,omitempty"`
}

func (h *SoulHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Transition(r.Context(), req.NewState, req.Reason)
	if err != nil {
		handleSoulError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		OldProcess:       result.OldProcess,
		NewProcess:       result.NewProcess,
		Reason:           result.Reason,
		PersistenceError: persistenceError(result.Persistence),
	})
}

type addMemoryRequest struct {
	Content    string   `json:"content"`
	Kind       string   `json:"type,omitempty"`
	Importance *float64 `json:"importance,omitempty"`
}

type addMemoryResponse struct {
	StoredIn         domain.StorageTier `json:"stored_in"`
	TotalMemories    int                `json:"total_memories"`
	PersistenceError string             `json:"persistence_error,omitempty"`
}

func (h *SoulHandler) AddMemory(w http.ResponseWriter, r *http.Request) {
	var req addMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Absent importance is distinct from zero: absent takes the service
	// default, explicit values clamp at zero.
	importance := -1.0
	if req.Importance != nil {
		importance = *req.Importance
		if importance < 0 {
			importance = 0
		}
	}

	result, err := h.svc.AddMemory(r.Context(), req.Content, req.Kind, importance)
	if err != nil {
		handleSoulError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addMemoryResponse{
		StoredIn:         result.StoredIn,
		TotalMemories:    result.TotalMemories,
		PersistenceError: persistenceError(result.Persistence),
	})
}

func handleSoulError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrInvalidProcess),
		errors.Is(err, service.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "soul operation failed")
	}
}

func persistenceError(p service.PersistStatus) string {
	if p.Err != nil {
		return p.Err.Error()
	}
	return ""
}
