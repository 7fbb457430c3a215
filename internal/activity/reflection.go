package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/client"
	"github.com/animakit/anima/internal/domain"
)

const (
	reflectionCooldown   = 1 * time.Hour
	reflectionImportance = 0.7
	// reflectionWindow is how many recent activities a reflection names.
	reflectionWindow = 5
)

const defaultReflectionPrompt = "I'm taking a moment to reflect on who I am and what I want to become. What thoughts arise?"

// Reflection has the soul look back over its recent activities: it perceives
// a summary of them as self-reflection, then records how that felt as a
// durable memory. Perceive and the memory are two independent calls; the
// engine does not merge them.
type Reflection struct {
	driver   client.Driver
	ring     *Ring
	logger   *zap.Logger
	cooldown time.Duration
}

func NewReflection(driver client.Driver, ring *Ring, logger *zap.Logger) *Reflection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reflection{driver: driver, ring: ring, logger: logger, cooldown: reflectionCooldown}
}

func (a *Reflection) SetCooldown(d time.Duration) {
	if d > 0 {
		a.cooldown = d
	}
}

func (a *Reflection) Name() string            { return "reflection" }
func (a *Reflection) Cooldown() time.Duration { return a.cooldown }

func (a *Reflection) Run(ctx context.Context) (string, error) {
	prompt := defaultReflectionPrompt
	if names := a.ring.Names(reflectionWindow); len(names) > 0 {
		prompt = fmt.Sprintf(
			"I've been doing these things recently: %s. How do I feel about my progress and purpose?",
			strings.Join(names, ", "))
	}

	result, err := a.driver.Perceive(ctx, prompt, domain.KindSelfReflection)
	if err != nil {
		return "", fmt.Errorf("reflection perception failed: %w", err)
	}

	content := fmt.Sprintf("Reflected on my experiences. Feeling: %s",
		result.EmotionalState.Describe())
	if _, err := a.driver.AddMemory(ctx, content, domain.KindReflection, reflectionImportance); err != nil {
		return "", fmt.Errorf("failed to store reflection memory: %w", err)
	}

	a.logger.Debug("reflection complete",
		zap.String("mental_process", string(result.MentalProcess)))
	return fmt.Sprintf("reflected while %s", result.MentalProcess), nil
}

var _ Activity = (*Reflection)(nil)
