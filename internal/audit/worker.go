package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and appends them to the store
// until the channel is closed.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to append audit event",
				"event_type", event.Type,
				"event_id", event.ID,
				"error", err,
			)
		}
	}
}
