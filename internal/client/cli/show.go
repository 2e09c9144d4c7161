package cli

import (
	"context"
	"fmt"
	"os"
)

// argID resolves the record id from the command arguments, prompting when
// none was given.
func (a *App) argID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.reader, "Enter itinerary id", os.Stdout)
}

// Show prints one itinerary in full: header, day context and activities
// with coordinates when present.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argID(args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	it, err := a.itineraries.Get(ctx, id)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s (%s)", it.Destination(), it.ID))
	if start := it.StartDate(); start != "" {
		printlnFn("Starts:", start)
	}
	printlnFn(fmt.Sprintf("%d days, %d activities", it.DurationDays(), it.ActivityCount()))
	if it.Downloaded {
		printlnFn("Available offline")
	}

	lastDay := ""
	for _, act := range it.Activities() {
		if day := fmt.Sprint(act["day"]); day != lastDay && act["day"] != nil {
			lastDay = day
			header := "Day " + day
			if title, ok := act["dayTitle"].(string); ok && title != "" {
				header += ": " + title
			}
			printlnFn(header)
		}

		name, _ := act["name"].(string)
		if name == "" {
			name, _ = act["title"].(string)
		}
		line := "  - " + name
		if lon, lat, ok := act.Coordinates(); ok {
			line += fmt.Sprintf(" (%.5f, %.5f)", lat, lon)
		}
		printlnFn(line)
	}
	return nil
}
