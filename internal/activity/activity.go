// Package activity holds the companion's periodic behaviors: the things the
// soul does on its own between conversations. Each behavior implements
// Activity; the Runner schedules them and feeds their outcomes back into the
// next reflection through a shared Ring.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Activity is one periodic companion behavior.
type Activity interface {
	// Name tags the activity in logs, the ring and reflection prompts.
	Name() string
	// Cooldown is the minimum period between runs.
	Cooldown() time.Duration
	// Run performs the behavior and returns a short outcome summary.
	Run(ctx context.Context) (string, error)
}

// DefaultRingSize bounds the recent-activity ring.
const DefaultRingSize = 20

// Record is one completed activity run.
type Record struct {
	Name    string
	Summary string
	Err     error
	At      time.Time
}

// Describe renders the record the way the soul hears about it.
func (r Record) Describe() string {
	if r.Err != nil {
		return fmt.Sprintf("%s (error: %v)", r.Name, r.Err)
	}
	if r.Summary == "" {
		return r.Name
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.Summary)
}

// Ring keeps the most recent activity outcomes, newest last. Safe for
// concurrent use.
type Ring struct {
	mu   sync.Mutex
	max  int
	recs []Record
}

func NewRing(max int) *Ring {
	if max <= 0 {
		max = DefaultRingSize
	}
	return &Ring{max: max}
}

// Add appends a record, dropping the oldest once the ring is full.
func (r *Ring) Add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recs = append(r.recs, rec)
	if len(r.recs) > r.max {
		r.recs = r.recs[len(r.recs)-r.max:]
	}
}

// Last returns the most recent record, if any.
func (r *Ring) Last() (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.recs) == 0 {
		return Record{}, false
	}
	return r.recs[len(r.recs)-1], true
}

// Names returns up to n activity names, newest first.
func (r *Ring) Names(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > len(r.recs) {
		n = len(r.recs)
	}
	names := make([]string, 0, n)
	for i := len(r.recs) - 1; i >= len(r.recs)-n; i-- {
		names = append(names, r.recs[i].Name)
	}
	return names
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recs)
}
