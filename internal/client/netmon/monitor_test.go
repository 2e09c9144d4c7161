package netmon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_DefaultsToOnline(t *testing.T) {
	m := NewMonitor(logging.NewDefault())
	assert.True(t, m.Online())
	assert.Equal(t, Status{Connected: true, Kind: KindUnknown}, m.Status())
}

func TestMonitor_SetStatus_NotifiesSubscribersInOrder(t *testing.T) {
	m := NewMonitor(logging.NewDefault())

	var order []string
	m.Subscribe(func(s Status) { order = append(order, "first") })
	m.Subscribe(func(s Status) { order = append(order, "second") })

	m.SetStatus(Status{Connected: false, Kind: KindNone})

	assert.Equal(t, []string{"first", "second"}, order)
	assert.False(t, m.Online())
}

func TestMonitor_SetStatus_SameStatusDoesNotNotify(t *testing.T) {
	m := NewMonitor(logging.NewDefault())

	calls := 0
	m.Subscribe(func(s Status) { calls++ })

	m.SetStatus(Status{Connected: true, Kind: KindUnknown}) // same as initial
	assert.Equal(t, 0, calls)

	m.SetStatus(Status{Connected: false, Kind: KindNone})
	m.SetStatus(Status{Connected: false, Kind: KindNone})
	assert.Equal(t, 1, calls)
}

func TestMonitor_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	m := NewMonitor(logging.NewDefault())

	delivered := false
	m.Subscribe(func(s Status) { panic("boom") })
	m.Subscribe(func(s Status) { delivered = true })

	require.NotPanics(t, func() {
		m.SetStatus(Status{Connected: false, Kind: KindNone})
	})
	assert.True(t, delivered)
}

func TestMonitor_Unsubscribe(t *testing.T) {
	m := NewMonitor(logging.NewDefault())

	calls := 0
	unsubscribe := m.Subscribe(func(s Status) { calls++ })

	m.SetStatus(Status{Connected: false, Kind: KindNone})
	assert.Equal(t, 1, calls)

	unsubscribe()
	m.SetStatus(Status{Connected: true, Kind: KindWifi})
	assert.Equal(t, 1, calls)

	// calling unsubscribe again is safe
	assert.NotPanics(t, unsubscribe)
}

func TestMonitor_Watch_FeedsProbeResults(t *testing.T) {
	m := NewMonitor(logging.NewDefault())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	probe := func(ctx context.Context) Status {
		return Status{Connected: false, Kind: KindNone}
	}

	done := make(chan struct{})
	go func() {
		m.Watch(ctx, probe, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !m.Online() }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop on context cancellation")
	}
}

func TestHTTPProbe(t *testing.T) {
	t.Run("reachable server reports online", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound) // any response counts as reachable
		}))
		defer ts.Close()

		probe := HTTPProbe(ts.URL, time.Second)
		s := probe(context.Background())
		assert.True(t, s.Connected)
		assert.Equal(t, KindUnknown, s.Kind)
	})

	t.Run("unreachable server reports offline", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		probe := HTTPProbe(ts.URL, time.Second)
		s := probe(context.Background())
		assert.False(t, s.Connected)
		assert.Equal(t, KindNone, s.Kind)
	})
}
