package cli

import (
	"context"
	"fmt"
)

// List prints all itineraries, marking those pinned for offline use.
func (a *App) List(ctx context.Context) error {
	items, err := a.itineraries.List(ctx)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	if len(items) == 0 {
		printlnFn("No itineraries yet.")
		return nil
	}

	for _, it := range items {
		marker := " "
		if it.Downloaded {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s (%d days, %d activities)",
			marker, it.ID, it.Destination(), it.DurationDays(), it.ActivityCount()))
	}
	printlnFn("* available offline")
	return nil
}
