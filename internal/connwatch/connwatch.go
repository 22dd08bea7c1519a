// Package connwatch tracks whether the model providers are reachable.
//
// Each provider is probed on its own goroutine. While a provider is
// down the probe backs off exponentially (2s, 4s, ... capped at the
// retry ceiling); once it answers, it is re-checked on a slow poll.
// Transitions are logged and published on the event bus, and the
// current picture backs the /health endpoint.
package connwatch

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/legacyprime/foreman/internal/events"
)

// Probe checks one provider. Return nil when it is usable.
type Probe func(ctx context.Context) error

// Schedule controls probe timing.
type Schedule struct {
	// Retry is the first delay after a failed probe. It doubles on each
	// consecutive failure up to MaxRetry.
	Retry    time.Duration
	MaxRetry time.Duration

	// Poll is the interval between probes of a healthy provider.
	Poll time.Duration

	// Timeout bounds a single probe.
	Timeout time.Duration
}

// DefaultSchedule probes healthy providers every five minutes. The
// Anthropic probe spends a token, so this stays slow.
func DefaultSchedule() Schedule {
	return Schedule{
		Retry:    2 * time.Second,
		MaxRetry: time.Minute,
		Poll:     5 * time.Minute,
		Timeout:  10 * time.Second,
	}
}

func (s Schedule) withDefaults() Schedule {
	d := DefaultSchedule()
	if s.Retry <= 0 {
		s.Retry = d.Retry
	}
	if s.MaxRetry < s.Retry {
		s.MaxRetry = max(d.MaxRetry, s.Retry)
	}
	if s.Poll <= 0 {
		s.Poll = d.Poll
	}
	if s.Timeout <= 0 {
		s.Timeout = d.Timeout
	}
	return s
}

// Status is one provider's health, as served by /health.
type Status struct {
	Provider  string    `json:"provider"`
	Ready     bool      `json:"ready"`
	Checked   time.Time `json:"last_check,omitzero"`
	Failures  int       `json:"consecutive_failures,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

type provider struct {
	probe  Probe
	status Status
}

// Monitor watches a set of providers.
type Monitor struct {
	schedule Schedule
	bus      *events.Bus
	logger   *slog.Logger

	mu        sync.RWMutex
	providers map[string]*provider
	wg        sync.WaitGroup
}

// NewMonitor creates a monitor. Zero Schedule fields take the defaults.
func NewMonitor(s Schedule, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		schedule:  s.withDefaults(),
		logger:    logger.With("component", "connwatch"),
		providers: make(map[string]*provider),
	}
}

// SetEventBus publishes transitions on b.
func (m *Monitor) SetEventBus(b *events.Bus) { m.bus = b }

// Add registers a provider. Call before Start. Adding a name twice
// replaces the probe.
func (m *Monitor) Add(name string, probe Probe) {
	if name == "" || probe == nil {
		panic("connwatch: provider needs a name and a probe")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[name] = &provider{probe: probe, status: Status{Provider: name}}
}

// Start probes every provider in the background until ctx ends.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.RLock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	m.mu.RUnlock()

	for _, name := range names {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.watch(ctx, name)
		}()
	}
}

// Wait blocks until every watcher has exited.
func (m *Monitor) Wait() { m.wg.Wait() }

// CheckNow probes every provider once, synchronously.
func (m *Monitor) CheckNow(ctx context.Context) {
	m.mu.RLock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	m.mu.RUnlock()

	for _, name := range names {
		m.check(ctx, name)
	}
}

// Status returns every provider's health, sorted by name.
func (m *Monitor) Status() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Status, 0, len(m.providers))
	for _, p := range m.providers {
		out = append(out, p.status)
	}
	slices.SortFunc(out, func(a, b Status) int { return cmp.Compare(a.Provider, b.Provider) })
	return out
}

// Ready reports whether the named provider answered its last probe.
// Unknown providers are not ready.
func (m *Monitor) Ready(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[name]
	return ok && p.status.Ready
}

func (m *Monitor) watch(ctx context.Context, name string) {
	for {
		ready, failures := m.check(ctx, name)
		delay := m.schedule.Poll
		if !ready {
			delay = backoff(m.schedule, failures)
		}
		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

// check runs one probe and records the outcome. It returns the new
// readiness and consecutive failure count.
func (m *Monitor) check(ctx context.Context, name string) (bool, int) {
	m.mu.RLock()
	p, ok := m.providers[name]
	m.mu.RUnlock()
	if !ok {
		return false, 0
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.schedule.Timeout)
	err := p.probe(probeCtx)
	cancel()

	m.mu.Lock()
	was := p.status
	p.status.Checked = time.Now()
	if err == nil {
		p.status.Ready = true
		p.status.Failures = 0
		p.status.LastError = ""
	} else {
		p.status.Ready = false
		p.status.Failures++
		p.status.LastError = err.Error()
	}
	now := p.status
	m.mu.Unlock()

	switch {
	case now.Ready && !was.Ready:
		m.logger.Info("provider ready", "provider", name, "after_failures", was.Failures)
		m.bus.Emit(events.SourceConnwatch, events.KindProviderReady, map[string]any{
			"provider": name,
			"failures": was.Failures,
		})
	case !now.Ready && (was.Ready || was.Checked.IsZero()):
		m.logger.Warn("provider unreachable", "provider", name, "error", err)
		m.bus.Emit(events.SourceConnwatch, events.KindProviderDown, map[string]any{
			"provider": name,
			"error":    now.LastError,
		})
	case !now.Ready:
		m.logger.Debug("provider still unreachable", "provider", name, "failures", now.Failures, "error", err)
	}
	return now.Ready, now.Failures
}

// backoff is the delay after the given number of consecutive failures.
func backoff(s Schedule, failures int) time.Duration {
	d := s.Retry
	for i := 1; i < failures && d < s.MaxRetry; i++ {
		d *= 2
	}
	return min(d, s.MaxRetry)
}

// sleepCtx sleeps for d or until ctx is cancelled. Returns false if cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
