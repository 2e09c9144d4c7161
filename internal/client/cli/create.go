package cli

import (
	"context"
	"os"
)

// Create prompts for the basic trip fields and creates the itinerary.
// While offline the record is created locally and kept in the cache.
func (a *App) Create(ctx context.Context) error {
	destination, err := GetSimpleText(a.reader, "Destination", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	startDate, err := GetSimpleText(a.reader, "Start date (YYYY-MM-DD, optional)", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	endDate, err := GetSimpleText(a.reader, "End date (YYYY-MM-DD, optional)", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	payload := map[string]any{"destination": destination}
	if startDate != "" {
		payload["start_date"] = startDate
	}
	if endDate != "" {
		payload["end_date"] = endDate
	}

	it, err := a.itineraries.Create(ctx, payload)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	if it.Downloaded {
		printlnFn("Created locally (offline):", it.ID)
	} else {
		printlnFn("Created:", it.ID)
	}
	return nil
}
