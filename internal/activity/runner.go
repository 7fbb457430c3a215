package activity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTickInterval = 1 * time.Minute
	tickTimeout         = 2 * time.Minute
)

// Runner drives a set of activities on a shared tick, each gated by its own
// cooldown. Outcomes land in the ring either way; a failing activity never
// blocks the others.
type Runner struct {
	activities []Activity
	ring       *Ring
	logger     *zap.Logger

	mu      sync.Mutex
	lastRun map[string]time.Time

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewRunner(ring *Ring, logger *zap.Logger, activities ...Activity) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		activities: activities,
		ring:       ring,
		logger:     logger,
		lastRun:    make(map[string]time.Time),
		interval:   defaultTickInterval,
		stopCh:     make(chan struct{}),
	}
}

func (r *Runner) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// Start runs the tick loop in a background goroutine.
func (r *Runner) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Info("activity runner started",
			zap.Duration("interval", r.interval),
			zap.Int("activities", len(r.activities)))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
				r.RunDue(ctx)
				cancel()
			case <-r.stopCh:
				r.logger.Info("activity runner stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the runner, waiting for any in-flight tick.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}

// RunDue runs every activity whose cooldown has elapsed and records each
// outcome in the ring. It returns how many activities ran.
func (r *Runner) RunDue(ctx context.Context) int {
	due := r.takeDue(time.Now())
	if len(due) == 0 {
		return 0
	}

	g := new(errgroup.Group)
	for _, a := range due {
		g.Go(func() error {
			summary, err := a.Run(ctx)
			r.ring.Add(Record{Name: a.Name(), Summary: summary, Err: err, At: time.Now()})
			if err != nil {
				r.logger.Warn("activity failed",
					zap.String("activity", a.Name()),
					zap.Error(err))
				return nil
			}
			r.logger.Info("activity complete",
				zap.String("activity", a.Name()),
				zap.String("summary", summary))
			return nil
		})
	}
	g.Wait()
	return len(due)
}

// takeDue claims the activities whose cooldown has elapsed, stamping them so
// an overlapping call cannot claim them again.
func (r *Runner) takeDue(now time.Time) []Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []Activity
	for _, a := range r.activities {
		if last, ok := r.lastRun[a.Name()]; ok && now.Sub(last) < a.Cooldown() {
			continue
		}
		r.lastRun[a.Name()] = now
		due = append(due, a)
	}
	return due
}
