package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/travelbuddy/internal/client/client"
	"github.com/dmitrijs2005/travelbuddy/internal/client/models"
	"github.com/dmitrijs2005/travelbuddy/internal/client/netmon"
	"github.com/dmitrijs2005/travelbuddy/internal/client/repositories/itineraries"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record exists neither remotely nor in
	// the offline cache.
	ErrNotFound = client.ErrNotFound

	// ErrNotAvailableOffline is returned by write operations that need the
	// server while the device has no connectivity and the record is not
	// cached.
	ErrNotAvailableOffline = errors.New("not available offline")
)

// ItineraryService is the offline-first itinerary API. Every read prefers
// the server and falls back to the local cache; when the device is known to
// be offline, the network is not touched at all. Authentication failures
// always surface so the UI can force a re-login.
type ItineraryService interface {
	List(ctx context.Context) ([]models.Itinerary, error)
	Get(ctx context.Context, id string) (*models.Itinerary, error)
	Create(ctx context.Context, payload map[string]any) (*models.Itinerary, error)
	Update(ctx context.Context, id string, payload map[string]any) (*models.Itinerary, error)
	Delete(ctx context.Context, id string) error
	DownloadOffline(ctx context.Context, id string) error
	RemoveOffline(ctx context.Context, id string) error
	IsAvailableOffline(ctx context.Context, id string) bool
}

type itineraryService struct {
	api     client.Client
	cache   itineraries.Repository
	monitor *netmon.Monitor
	log     logging.Logger
}

// NewItineraryService returns the ItineraryService implementation.
func NewItineraryService(api client.Client, cache itineraries.Repository, monitor *netmon.Monitor, log logging.Logger) ItineraryService {
	return &itineraryService{
		api:     api,
		cache:   cache,
		monitor: monitor,
		log:     log.With("component", "itinerary-service"),
	}
}

// fallbackAllowed reports whether a remote failure may be papered over with
// cached data. Session failures never are.
func fallbackAllowed(err error) bool {
	var authErr *client.AuthError
	return !errors.As(err, &authErr)
}

// List returns all itineraries, remote-first. Offline, or when the server
// cannot be reached, the cached records are returned instead.
func (s *itineraryService) List(ctx context.Context) ([]models.Itinerary, error) {
	if !s.monitor.Online() {
		return s.cache.GetAll(ctx)
	}

	raw, err := s.api.ListItineraries(ctx)
	if err != nil {
		if !fallbackAllowed(err) {
			return nil, err
		}
		s.log.Warn(ctx, "remote list failed, serving cached itineraries", "error", err)
		cached, cacheErr := s.cache.GetAll(ctx)
		if cacheErr != nil {
			return nil, err
		}
		return cached, nil
	}

	result, err := parseList(raw)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Downloaded = s.IsAvailableOffline(ctx, result[i].ID)
	}
	return result, nil
}

// Get returns one itinerary, remote-first with cache fallback. An id absent
// from both sources yields ErrNotFound.
func (s *itineraryService) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	if !s.monitor.Online() {
		return s.fromCache(ctx, id)
	}

	raw, err := s.api.GetItinerary(ctx, id)
	if err != nil {
		if !fallbackAllowed(err) {
			return nil, err
		}
		if !errors.Is(err, client.ErrNotFound) {
			s.log.Warn(ctx, "remote get failed, trying cache", "id", id, "error", err)
		}
		it, cacheErr := s.fromCache(ctx, id)
		if cacheErr != nil {
			return nil, err
		}
		return it, nil
	}

	it := models.FromPayload(models.ParsePayload(raw))
	if it.ID == "" {
		it.ID = id
	}
	it.Downloaded = s.IsAvailableOffline(ctx, it.ID)
	return &it, nil
}

func (s *itineraryService) fromCache(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.cache.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}

// Create makes a new itinerary. Online it goes to the server; offline the
// record is created locally with a client-generated id so the trip can be
// planned without connectivity.
func (s *itineraryService) Create(ctx context.Context, payload map[string]any) (*models.Itinerary, error) {
	if !s.monitor.Online() {
		it := models.Itinerary{ID: uuid.NewString(), Payload: payload}
		res, err := s.cache.Save(ctx, &it)
		if err != nil {
			return nil, err
		}
		it.CreatedAt = res.CreatedAt
		it.UpdatedAt = res.UpdatedAt
		it.Downloaded = true
		s.log.Info(ctx, "created itinerary locally while offline", "id", it.ID)
		return &it, nil
	}

	raw, err := s.api.CreateItinerary(ctx, payload)
	if err != nil {
		return nil, err
	}
	it := models.FromPayload(models.ParsePayload(raw))
	return &it, nil
}

// Update replaces an itinerary's payload. Online the server copy is
// authoritative and a cached copy is refreshed from its response. Offline
// only records already in the cache can be updated.
func (s *itineraryService) Update(ctx context.Context, id string, payload map[string]any) (*models.Itinerary, error) {
	if !s.monitor.Online() {
		cached, err := s.cache.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if cached == nil {
			return nil, ErrNotAvailableOffline
		}
		it := models.Itinerary{ID: id, Payload: payload}
		res, err := s.cache.Save(ctx, &it)
		if err != nil {
			return nil, err
		}
		it.CreatedAt = res.CreatedAt
		it.UpdatedAt = res.UpdatedAt
		it.Downloaded = true
		return &it, nil
	}

	raw, err := s.api.UpdateItinerary(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	it := models.FromPayload(models.ParsePayload(raw))
	if it.ID == "" {
		it.ID = id
	}

	if s.IsAvailableOffline(ctx, it.ID) {
		if _, err := s.cache.SaveJSON(ctx, raw); err != nil {
			s.log.Warn(ctx, "failed to refresh cached copy after update", "id", it.ID, "error", err)
		} else {
			it.Downloaded = true
		}
	}
	return &it, nil
}

// Delete removes the itinerary locally and, when online, remotely. The
// remote outcome never blocks the local removal: whatever the server said,
// the cached copy is gone and only the local outcome is reported.
func (s *itineraryService) Delete(ctx context.Context, id string) error {
	if s.monitor.Online() {
		if err := s.api.DeleteItinerary(ctx, id); err != nil && !errors.Is(err, client.ErrNotFound) {
			s.log.Warn(ctx, "remote delete failed, removing local copy only", "id", id, "error", err)
		}
	}

	if err := s.cache.DeleteByID(ctx, id); err != nil && !errors.Is(err, itineraries.ErrUnavailable) {
		return err
	}
	return nil
}

// DownloadOffline fetches the full record and pins it to the cache.
func (s *itineraryService) DownloadOffline(ctx context.Context, id string) error {
	raw, err := s.api.GetItinerary(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.cache.SaveJSON(ctx, raw); err != nil {
		return fmt.Errorf("failed to store itinerary offline: %w", err)
	}
	s.log.Info(ctx, "itinerary downloaded for offline use", "id", id)
	return nil
}

// RemoveOffline unpins the record from the cache without touching the
// server copy.
func (s *itineraryService) RemoveOffline(ctx context.Context, id string) error {
	return s.cache.DeleteByID(ctx, id)
}

// IsAvailableOffline reports whether the record is pinned to the cache.
// Storage failures read as "not available".
func (s *itineraryService) IsAvailableOffline(ctx context.Context, id string) bool {
	ok, err := s.cache.Exists(ctx, id)
	return err == nil && ok
}

// parseList decodes a list response, accepting both a bare array and an
// object wrapping the array under a well-known key.
func parseList(raw []byte) ([]models.Itinerary, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse itinerary list: %w", err)
		}
		found := false
		for _, key := range []string{"itineraries", "data", "items"} {
			if inner, ok := doc[key]; ok {
				if err := json.Unmarshal(inner, &items); err != nil {
					return nil, fmt.Errorf("failed to parse itinerary list: %w", err)
				}
				found = true
				break
			}
		}
		if !found {
			return nil, errors.New("unrecognized itinerary list response")
		}
	}

	result := make([]models.Itinerary, 0, len(items))
	for _, item := range items {
		result = append(result, models.FromPayload(item))
	}
	return result, nil
}
