// Package cli is the interactive terminal frontend: a small REPL over the
// auth and itinerary services, with a connectivity watcher switching the
// prompt between online and offline mode.
package cli

import (
	"bufio"
	"context"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/client"
	"github.com/dmitrijs2005/travelbuddy/internal/client/config"
	"github.com/dmitrijs2005/travelbuddy/internal/client/netmon"
	"github.com/dmitrijs2005/travelbuddy/internal/client/repositories/itineraries"
	"github.com/dmitrijs2005/travelbuddy/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/travelbuddy/internal/client/services"
	"github.com/dmitrijs2005/travelbuddy/internal/client/storage"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const probeTimeout = 3 * time.Second

type App struct {
	config      *config.Config
	log         logging.Logger
	storage     *storage.Manager
	apiClient   *client.HTTPClient
	authService services.AuthService
	itineraries services.ItineraryService
	monitor     *netmon.Monitor

	userName string
	reader   *bufio.Reader

	// mode is written by the connectivity watcher goroutine and read by
	// the REPL goroutine
	modeMu sync.RWMutex
	mode   Mode
}

// NewApp wires the full client stack from the resolved configuration.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	sm := storage.NewManager(c.DatabasePath)
	prefs := preferences.NewSQLiteStore(sm)
	apiClient := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, prefs, log)
	monitor := netmon.NewMonitor(log)

	app := &App{
		config:      c,
		log:         log,
		storage:     sm,
		apiClient:   apiClient,
		authService: services.NewAuthService(apiClient, prefs, log),
		itineraries: services.NewItineraryService(apiClient, itineraries.NewCache(sm, log), monitor, log),
		monitor:     monitor,
		mode:        ModeOnline,
		reader:      bufio.NewReader(os.Stdin),
	}
	return app, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	if changed {
		a.mode = mode
	}
	a.modeMu.Unlock()

	if changed {
		printlnFn("Switched to", string(mode), "mode")
	}
}

func (a *App) currentMode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

// Run starts the connectivity watcher and the REPL, and tears the stack
// down when the user leaves.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.apiClient.Close()
		_ = a.storage.Close()
	}()

	unsubscribe := a.monitor.Subscribe(func(s netmon.Status) {
		if s.Connected {
			a.setMode(ModeOnline)
		} else {
			a.setMode(ModeOffline)
		}
	})
	defer unsubscribe()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.monitor.Watch(watchCtx, netmon.HTTPProbe(a.config.APIBaseURL+"/health", probeTimeout), a.config.OnlineCheckInterval)

	if info, err := a.authService.CurrentUser(ctx); err == nil {
		a.userName = info.Email
	}

	printlnFn("Welcome to TravelBuddy CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s = s + string(a.currentMode())
	return "(" + s + ")"
}
