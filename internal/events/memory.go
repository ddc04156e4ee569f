package events

import (
	"context"
	"sync"
)

// PublishedEvent pairs an event with the topic it went to.
type PublishedEvent struct {
	Topic string
	Event Event
}

// MemoryPublisher keeps published events in memory. It backs brokerless dev
// runs and lets tests assert on exactly what was announced.
type MemoryPublisher struct {
	mu        sync.Mutex
	published []PublishedEvent
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, topic string, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, PublishedEvent{Topic: topic, Event: ev})
	return nil
}

// Published returns a snapshot of everything published so far.
func (p *MemoryPublisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.published))
	copy(out, p.published)
	return out
}

func (p *MemoryPublisher) Close() {}
