package cli

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/config"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		APIBaseURL:          "http://127.0.0.1:0/api",
		DatabasePath:        filepath.Join(t.TempDir(), "app.db"),
		RequestTimeout:      time.Second,
		OnlineCheckInterval: time.Second,
	}
	app, err := NewApp(cfg, logging.NewDefault())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.apiClient.Close()
		_ = app.storage.Close()
	})
	return app
}

func silenceOutput(t *testing.T) {
	t.Helper()
	old := printlnFn
	printlnFn = func(args ...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = old })
}

func TestApp_SetMode(t *testing.T) {
	silenceOutput(t)
	app := newTestApp(t)

	assert.Equal(t, ModeOnline, app.currentMode())

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.currentMode())
	assert.Equal(t, "(offline)", app.getStatus())

	app.userName = "a@b.c"
	app.setMode(ModeOnline)
	assert.Equal(t, "(a@b.c online)", app.getStatus())
}

func TestApp_ModeConcurrentAccess(t *testing.T) {
	silenceOutput(t)
	app := newTestApp(t)

	// watcher-style writers racing REPL-style readers
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (i+j)%2 == 0 {
					app.setMode(ModeOffline)
				} else {
					app.setMode(ModeOnline)
				}
				_ = app.getStatus()
			}
		}(i)
	}
	wg.Wait()

	assert.Contains(t, []Mode{ModeOnline, ModeOffline}, app.currentMode())
}
