package queue

import (
	"context"

	"github.com/vishalbagda/MidWiseAi/internal/log"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

// PublishAsync fires the event off the request path. The request context is
// detached so the publish outlives the handler.
func PublishAsync(ctx context.Context, p Publisher, exchange, key string, event any, reqID string) {
	if p == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := p.Publish(ctx, exchange, key, event, reqID); err != nil {
			log.Ctx(ctx).Warn("publish failed",
				zap.String("key", key), zap.String("request_id", reqID), zap.Error(err))
		}
	}()
}
