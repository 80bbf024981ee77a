package offers

import (
	"sync"

	"github.com/rs/zerolog"
)

// ProgressEvent is one progress update emitted during a generation run.
// Range mode reports per-combination progress; the other strategies emit a
// single terminal event.
type ProgressEvent struct {
	JobID              string `json:"job_id"`
	Stage              string `json:"stage"`
	CombinationsTested int    `json:"combinations_tested"`
	OffersFound        int    `json:"offers_found"`
	Done               bool   `json:"done"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(ProgressEvent)

// ProgressBroker fans generation progress out to SSE subscribers, keyed by
// job id. Channels are buffered; slow subscribers drop events rather than
// stalling the engine.
type ProgressBroker struct {
	mu   sync.RWMutex
	subs map[string][]chan ProgressEvent
	log  zerolog.Logger
}

// NewProgressBroker creates an empty broker.
func NewProgressBroker(log zerolog.Logger) *ProgressBroker {
	return &ProgressBroker{
		subs: make(map[string][]chan ProgressEvent),
		log:  log.With().Str("component", "progress_broker").Logger(),
	}
}

// Subscribe registers a listener for a job id and returns its event channel.
func (b *ProgressBroker) Subscribe(jobID string) chan ProgressEvent {
	ch := make(chan ProgressEvent, 64)
	b.mu.Lock()
	b.subs[jobID] = append(b.subs[jobID], ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel for a job id.
func (b *ProgressBroker) Unsubscribe(jobID string, ch chan ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	listeners := b.subs[jobID]
	for i, listener := range listeners {
		if listener == ch {
			b.subs[jobID] = append(listeners[:i], listeners[i+1:]...)
			break
		}
	}
	if len(b.subs[jobID]) == 0 {
		delete(b.subs, jobID)
	}
}

// Publish delivers an event to all listeners of its job id. Full listener
// buffers drop the event.
func (b *ProgressBroker) Publish(event ProgressEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[event.JobID] {
		select {
		case ch <- event:
		default:
			b.log.Debug().Str("job_id", event.JobID).Msg("Dropped progress event for slow subscriber")
		}
	}
}

// Close closes and removes every listener of a job id. Called after the
// terminal event is published.
func (b *ProgressBroker) Close(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[jobID] {
		close(ch)
	}
	delete(b.subs, jobID)
}
