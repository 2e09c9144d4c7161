package cli

import (
	"context"
	"time"
)

// Status prints connectivity and session details.
func (a *App) Status(ctx context.Context) error {
	s := a.monitor.Status()
	if s.Connected {
		printlnFn("Network: online (" + s.Kind + ")")
	} else {
		printlnFn("Network: offline")
	}

	if !a.authService.IsAuthenticated(ctx) {
		printlnFn("Session: not logged in")
		return nil
	}

	if info, err := a.authService.CurrentUser(ctx); err == nil {
		printlnFn("Session: logged in as " + info.Email)
	} else {
		printlnFn("Session: logged in")
	}

	if exp, err := a.authService.SessionExpiry(ctx); err == nil {
		printlnFn("Session expires:", exp.Local().Format(time.RFC1123))
	}
	return nil
}
