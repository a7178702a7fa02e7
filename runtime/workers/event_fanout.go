package workers

import (
	"context"
	"log/slog"
	"market-lab/contract"
	"market-lab/domain/event"
	"time"

	"github.com/samber/lo"
)

// EventFanout pushes domain events to the open streams of their recipients.
//
// Delivery is best-effort: a missing or slow subscriber never fails or
// delays the operation that produced the event. Stored state stays the
// source of truth and clients resync by listing.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	registry    contract.IRegistry
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent,
	registry contract.IRegistry, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, events: events, registry: registry, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel closed, stopping fanout")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout hands the event to every sink of every recipient, bounded by the
// sink timeout. Delivery is sequential so each sink sees events in publish order.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, userID := range lo.Uniq(evt.Recipients()) {
		for _, sink := range w.registry.GetSinksForUser(userID) {
			w.deliver(ctx, sink, userID, evt)
		}
	}
}

func (w *EventFanout) deliver(ctx context.Context, s contract.EventSink, userID string, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := s.Consume(sinkCtx, evt); err != nil {
		w.log.Warn("Sink delivery failed",
			"user_id", userID,
			"event", event.Name(evt),
			"error", err)
	}
}
