// Package itineraries implements the offline itinerary cache: a local,
// SQLite-backed snapshot store keyed by record id.
package itineraries

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/models"
)

// ErrUnavailable is returned by write operations when the local storage
// engine cannot be used on this runtime target. Reads degrade to empty
// results instead.
var ErrUnavailable = errors.New("offline cache unavailable")

// SaveResult reports the identity and timestamps assigned by a save.
type SaveResult struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository is the offline cache contract.
//
//   - Save / SaveJSON upsert a full record snapshot by id; a missing or
//     unparsable id gets a generated one.
//   - GetAll returns cached records, most recently created first.
//   - GetByID returns nil (no error) for an absent id.
//   - DeleteByID is idempotent: deleting an absent id succeeds.
type Repository interface {
	Save(ctx context.Context, it *models.Itinerary) (*SaveResult, error)
	SaveJSON(ctx context.Context, raw []byte) (*SaveResult, error)
	GetAll(ctx context.Context) ([]models.Itinerary, error)
	GetByID(ctx context.Context, id string) (*models.Itinerary, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
