package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/travelbuddy/internal/client/client"
	"github.com/dmitrijs2005/travelbuddy/internal/shared"
)

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		var netErr *client.NetworkError
		if errors.As(err, &netErr) {
			printlnFn("Server unreachable, cannot log in. Cached itineraries stay available after you reconnect.")
		} else {
			printlnFn("Login unsuccessful:", err.Error())
		}
		return err
	}

	a.userName = email
	printlnFn("Login successful")
	return nil
}

// Register prompts for credentials and creates an account.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, password); err != nil {
		printlnFn("Registration unsuccessful:", err.Error())
		return err
	}

	a.userName = email
	printlnFn("Registration successful")
	return nil
}

// Logout closes the session and forgets local credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.userName = ""
	printlnFn("Logged out")
	return nil
}
