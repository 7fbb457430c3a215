package handlers

import (
	"net/http"
	"strconv"

	"github.com/animakit/anima/internal/domain"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

type JournalHandler struct {
	journal domain.JournalStore
}

func NewJournalHandler(journal domain.JournalStore) *JournalHandler {
	return &JournalHandler{journal: journal}
}

type journalResponse struct {
	Entries []domain.JournalEntry `json:"entries"`
	Count   int64                 `json:"count"`
}

// Recent lists the newest journal entries. The limit parameter defaults to
// 50 and is capped at 500; junk values fall back to the default.
func (h *JournalHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultJournalLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	entries, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list journal entries")
		return
	}
	count, err := h.journal.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count journal entries")
		return
	}

	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, journalResponse{Entries: entries, Count: count})
}
