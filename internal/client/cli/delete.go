package cli

import "context"

// Delete removes an itinerary remotely and from the cache.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argID(args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	if err := a.itineraries.Delete(ctx, id); err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn("Deleted:", id)
	return nil
}

// Download pins an itinerary for offline use.
func (a *App) Download(ctx context.Context, args []string) error {
	id, err := a.argID(args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	if err := a.itineraries.DownloadOffline(ctx, id); err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn("Downloaded for offline use:", id)
	return nil
}

// Remove unpins an itinerary from the offline cache.
func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := a.argID(args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	if err := a.itineraries.RemoveOffline(ctx, id); err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn("Removed from offline storage:", id)
	return nil
}
