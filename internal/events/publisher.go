package events

import "context"

// Publisher is the fire-and-forget outbound side of the event bus. A failed
// publish is the caller's problem only so far as logging it; delivery is
// best-effort and never part of a write's consistency boundary.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
	Close()
}
