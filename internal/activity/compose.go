package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/client"
	"github.com/animakit/anima/internal/composer"
)

const composeCooldown = 1 * time.Hour

// Compose reads the current soul state, builds a short post from it and
// publishes it. Candidates too close to past posts are dropped without
// being published.
type Compose struct {
	driver    client.Driver
	composer  *composer.Composer
	publisher composer.Publisher
	logger    *zap.Logger
	cooldown  time.Duration
}

func NewCompose(driver client.Driver, comp *composer.Composer, publisher composer.Publisher, logger *zap.Logger) *Compose {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compose{driver: driver, composer: comp, publisher: publisher, logger: logger, cooldown: composeCooldown}
}

func (a *Compose) SetCooldown(d time.Duration) {
	if d > 0 {
		a.cooldown = d
	}
}

func (a *Compose) Name() string            { return "compose" }
func (a *Compose) Cooldown() time.Duration { return a.cooldown }

func (a *Compose) Run(ctx context.Context) (string, error) {
	state, err := a.driver.State(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read soul state: %w", err)
	}

	post, ok := a.composer.Compose(state.MentalProcess, state.EmotionalState)
	if !ok {
		a.logger.Debug("post suppressed as duplicate", zap.String("post", post))
		return "post suppressed as duplicate", nil
	}

	if err := a.publisher.Publish(ctx, post); err != nil {
		return "", fmt.Errorf("failed to publish post: %w", err)
	}
	if err := a.composer.Record(post); err != nil {
		return "", fmt.Errorf("failed to record post: %w", err)
	}

	return fmt.Sprintf("posted: %s", post), nil
}

var _ Activity = (*Compose)(nil)
