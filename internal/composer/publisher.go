package composer

import (
	"context"

	"go.uber.org/zap"
)

// Publisher delivers an accepted post somewhere.
type Publisher interface {
	Publish(ctx context.Context, post string) error
}

// LogPublisher writes posts to the log and nothing else.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, post string) error {
	p.logger.Info("post published", zap.String("post", post))
	return nil
}

var _ Publisher = (*LogPublisher)(nil)
