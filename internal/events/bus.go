// Package events is a publish/subscribe bus for operational
// observability. The orchestrator and the HTTP layer publish; the
// /v1/events WebSocket subscribes. Publish on a nil *Bus is a no-op,
// so components do not need guard checks.
package events

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Sources.
const (
	// SourceOrchestrator identifies events from a conversation turn.
	SourceOrchestrator = "orchestrator"
	// SourceAPI identifies events from the HTTP layer.
	SourceAPI = "api"
	// SourceConnwatch identifies model-provider health changes.
	SourceConnwatch = "connwatch"
)

// Kind constants describe the type of event within a source.
const (
	// KindRequestStart signals the beginning of a turn.
	// Data: request_id, messages, attachments.
	KindRequestStart = "request_start"
	// KindLLMCall signals the start of a model call.
	// Data: request_id, round, model.
	KindLLMCall = "llm_call"
	// KindLLMResponse signals completion of a model call.
	// Data: request_id, round, model, tokens_in, tokens_out,
	// cost_usd, tool_calls.
	KindLLMResponse = "llm_response"
	// KindToolCall signals the start of an operation.
	// Data: request_id, tool.
	KindToolCall = "tool_call"
	// KindToolDone signals completion of an operation.
	// Data: request_id, tool, ok, action, duration_ms.
	KindToolDone = "tool_done"
	// KindRequestComplete signals the end of a turn.
	// Data: request_id, model, tool_calls, action, total_tokens_in,
	// total_tokens_out, total_cost_usd, elapsed_ms.
	KindRequestComplete = "request_complete"
	// KindRequestFailed signals a turn that ended in an error.
	// Data: request_id, state, error.
	KindRequestFailed = "request_failed"

	// KindRequestRejected signals an HTTP request refused before
	// reaching the orchestrator. Data: path, status, reason.
	KindRequestRejected = "request_rejected"

	// KindProviderReady signals a provider that answered after being
	// down or unknown. Data: provider, failures.
	KindProviderReady = "provider_ready"
	// KindProviderDown signals a provider that stopped answering.
	// Data: provider, error.
	KindProviderDown = "provider_down"
)

// Event represents a single operational event published by a component.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"ts"`
	// Source identifies the component that published the event.
	Source string `json:"source"`
	// Kind describes the type of event within the source.
	Kind string `json:"kind"`
	// Data holds event-specific key/value pairs.
	Data map[string]any `json:"data,omitempty"`
}

// Filter narrows a subscription. Empty fields match everything.
type Filter struct {
	Sources []string
	Kinds   []string
}

// Matches reports whether e passes the filter.
func (f Filter) Matches(e Event) bool {
	return (len(f.Sources) == 0 || slices.Contains(f.Sources, e.Source)) &&
		(len(f.Kinds) == 0 || slices.Contains(f.Kinds, e.Kind))
}

type subscriber struct {
	ch     chan Event
	filter Filter
}

// Bus is a non-blocking broadcast event bus. Subscribers receive events
// on buffered channels; slow subscribers miss events rather than
// blocking a turn.
type Bus struct {
	mu      sync.RWMutex
	subs    map[<-chan Event]*subscriber
	dropped atomic.Uint64
}

// New creates a new event bus ready for use.
func New() *Bus {
	return &Bus{subs: make(map[<-chan Event]*subscriber)}
}

// Publish sends an event to every subscriber whose filter matches.
// Safe to call on a nil receiver (no-op).
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if !s.filter.Matches(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Emit publishes an event stamped with the current time.
func (b *Bus) Emit(source, kind string, data map[string]any) {
	if b == nil {
		return
	}
	b.Publish(Event{Timestamp: time.Now(), Source: source, Kind: kind, Data: data})
}

// Subscribe returns a channel that receives the events f matches. The
// caller must call Unsubscribe when done.
func (b *Bus) Subscribe(bufSize int, f Filter) <-chan Event {
	s := &subscriber{ch: make(chan Event, bufSize), filter: f}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[s.ch] = s
	return s.ch
}

// Unsubscribe removes a subscription and closes its channel. Unknown
// channels are ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.subs[ch]
	if !ok {
		return
	}
	delete(b.subs, ch)
	close(s.ch)
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped counts deliveries skipped because a subscriber was full.
func (b *Bus) Dropped() uint64 {
	if b == nil {
		return 0
	}
	return b.dropped.Load()
}
