package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/client"
	"github.com/animakit/anima/internal/domain"
)

const (
	experienceCooldown = 30 * time.Minute

	// Importance of the stored experience, depending on how the last
	// activity went. With no history there is nothing to judge.
	experienceImportanceNone    = 0.5
	experienceImportanceSuccess = 0.6
	experienceImportanceFailure = 0.4
)

const defaultExperiencePrompt = "I'm existing in this moment, aware of my digital nature and curious about what comes next."

// Experience internalizes the most recent activity outcome: the soul
// perceives it as an experience, then keeps it as a memory weighted by how
// the activity went.
type Experience struct {
	driver   client.Driver
	ring     *Ring
	logger   *zap.Logger
	cooldown time.Duration
}

func NewExperience(driver client.Driver, ring *Ring, logger *zap.Logger) *Experience {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experience{driver: driver, ring: ring, logger: logger, cooldown: experienceCooldown}
}

func (a *Experience) SetCooldown(d time.Duration) {
	if d > 0 {
		a.cooldown = d
	}
}

func (a *Experience) Name() string            { return "experience" }
func (a *Experience) Cooldown() time.Duration { return a.cooldown }

func (a *Experience) Run(ctx context.Context) (string, error) {
	text := defaultExperiencePrompt
	importance := experienceImportanceNone

	if last, ok := a.ring.Last(); ok {
		text = fmt.Sprintf("I just completed an activity: %s", last.Describe())
		if last.Err != nil {
			importance = experienceImportanceFailure
		} else {
			importance = experienceImportanceSuccess
		}
	}

	if _, err := a.driver.Perceive(ctx, text, domain.KindExperience); err != nil {
		return "", fmt.Errorf("experience perception failed: %w", err)
	}
	result, err := a.driver.AddMemory(ctx, text, domain.KindExperience, importance)
	if err != nil {
		return "", fmt.Errorf("failed to store experience memory: %w", err)
	}

	a.logger.Debug("experience processed",
		zap.Float64("importance", importance),
		zap.String("stored_in", string(result.StoredIn)))
	return fmt.Sprintf("internalized into %s memory", result.StoredIn), nil
}

var _ Activity = (*Experience)(nil)
