package services

import (
	"fmt"
	"log/slog"
	"market-lab/domain/event"
)

// publish hands evt to the fanout without ever blocking the caller.
// Live delivery is best effort, a full buffer drops the event.
func publish(log *slog.Logger, events chan<- event.DomainEvent, evt event.DomainEvent) {
	if events == nil {
		return
	}
	select {
	case events <- evt:
	default:
		log.Warn("Event buffer full, live update dropped", "event", fmt.Sprintf("%T", evt))
	}
}
