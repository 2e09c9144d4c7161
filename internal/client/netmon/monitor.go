// Package netmon tracks device connectivity. One process-wide Monitor holds
// the current status, fed either by platform integrations calling SetStatus
// or by the Watch probe loop, and fans changes out to subscribers.
package netmon

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/logging"
)

// Connection kinds reported in Status. A probe that cannot tell wifi from
// cellular reports KindUnknown.
const (
	KindWifi     = "wifi"
	KindCellular = "cellular"
	KindUnknown  = "unknown"
	KindNone     = "none"
)

// Status is the current connectivity snapshot.
type Status struct {
	Connected bool
	Kind      string
}

// Probe determines the current connectivity status.
type Probe func(ctx context.Context) Status

type subscriber struct {
	id int
	cb func(Status)
}

// Monitor holds the current status and the subscriber list.
type Monitor struct {
	log logging.Logger

	mu     sync.Mutex
	status Status
	nextID int
	subs   []subscriber
}

// NewMonitor returns a Monitor that assumes the device is online until told
// otherwise, matching the behavior when detection is not available.
func NewMonitor(log logging.Logger) *Monitor {
	return &Monitor{
		log:    log.With("component", "netmon"),
		status: Status{Connected: true, Kind: KindUnknown},
	}
}

// Status returns the current connectivity snapshot.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Online reports whether the device is currently connected.
func (m *Monitor) Online() bool {
	return m.Status().Connected
}

// SetStatus records a new status and, when it differs from the previous one,
// notifies all current subscribers synchronously, in registration order.
// A subscriber that panics does not prevent delivery to the rest.
func (m *Monitor) SetStatus(s Status) {
	m.mu.Lock()
	if m.status == s {
		m.mu.Unlock()
		return
	}
	m.status = s
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, sub := range subs {
		m.notify(sub, s)
	}
}

func (m *Monitor) notify(sub subscriber, s Status) {
	defer func() {
		if p := recover(); p != nil {
			m.log.Error(context.Background(), "network status subscriber panicked", "panic", p)
		}
	}()
	sub.cb(s)
}

// Subscribe registers cb for status changes and returns its unsubscribe
// function, which is safe to call more than once.
func (m *Monitor) Subscribe(cb func(Status)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, cb: cb})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Watch runs probe at the given interval (and once immediately), feeding the
// result into SetStatus, until ctx is cancelled.
func (m *Monitor) Watch(ctx context.Context, probe Probe, interval time.Duration) {
	m.SetStatus(probe(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.SetStatus(probe(ctx))
		case <-ctx.Done():
			return
		}
	}
}

// HTTPProbe builds a Probe that considers the device online when a HEAD
// request to url succeeds within timeout. Any HTTP status counts as
// reachable; only transport failures mean offline.
func HTTPProbe(url string, timeout time.Duration) Probe {
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context) Status {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return Status{Connected: false, Kind: KindNone}
		}
		resp, err := client.Do(req)
		if err != nil {
			return Status{Connected: false, Kind: KindNone}
		}
		_ = resp.Body.Close()
		return Status{Connected: true, Kind: KindUnknown}
	}
}
