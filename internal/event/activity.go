package event

import (
	"context"
	"log/slog"
)

// LogActivity writes one "console action" line per published event until ctx
// is done.
func LogActivity(ctx context.Context, bus Bus) {
	events, unsubscribe := bus.Subscribe("activity-log")
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			slog.Info("console action",
				"action", e.Type,
				"resource", e.Resource,
				"resource_id", e.ResourceID,
				"actor", e.ActorID,
			)
		}
	}
}
