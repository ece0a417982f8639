package services

import (
	"sync"

	"github.com/HSouheill/mlm_backoffice/models"
)

// Publisher fans events out to live listeners. Delivery is at-most-once:
// Publish never blocks on slow consumers and never reports failure.
type Publisher interface {
	Publish(event models.Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(models.Event) {}

// RecordingPublisher keeps every event in memory so callers can inspect what
// would have been broadcast.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []models.Event
}

func (p *RecordingPublisher) Publish(event models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// Types returns the recorded event types in publish order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}
