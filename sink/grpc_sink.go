package sink

import (
	"context"
	"log/slog"
	"market-lab/domain/event"
	"sync/atomic"
)

// GrpcSink buffers events for one connected stream.
// The stream handler drains Events and forwards them to the client.
type GrpcSink struct {
	Events  chan event.DomainEvent
	log     *slog.Logger
	dropped atomic.Int64
}

func NewGrpcSink(log *slog.Logger, bufferSize int) *GrpcSink {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &GrpcSink{Events: make(chan event.DomainEvent, bufferSize), log: log}
}

// Consume never blocks the fanout. A slow subscriber loses events and
// catches up by listing messages again.
func (s *GrpcSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.dropped.Add(1)
		s.log.Warn("Subscriber buffer full, event dropped", "event", event.Name(e))
		return nil
	}
}

func (s *GrpcSink) Dropped() int64 {
	return s.dropped.Load()
}
