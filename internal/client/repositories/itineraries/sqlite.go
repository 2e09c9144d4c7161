package itineraries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/models"
	"github.com/dmitrijs2005/travelbuddy/internal/client/storage"
	"github.com/dmitrijs2005/travelbuddy/internal/dbx"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"github.com/dmitrijs2005/travelbuddy/internal/shared"
)

// timeLayout is a fixed-width RFC3339 variant: fractional seconds always
// print all nine digits and times are stored in UTC, so the TEXT column
// sorts lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Cache is the SQLite-backed Repository. The underlying database is opened
// lazily by the storage manager on the first operation; if the engine is
// unavailable, reads come back empty and writes fail with ErrUnavailable,
// so the rest of the app keeps working without offline support.
type Cache struct {
	m   *storage.Manager
	log logging.Logger
}

// NewCache returns a Cache over the given storage manager.
func NewCache(m *storage.Manager, log logging.Logger) *Cache {
	return &Cache{m: m, log: log.With("component", "offline-cache")}
}

func (c *Cache) db(ctx context.Context) (dbx.DBTX, error) {
	return c.m.DB(ctx)
}

// Save upserts a full record snapshot. A record without an id gets a
// generated one. UpdatedAt is stamped with the current time; CreatedAt is
// preserved when the record already exists.
func (c *Cache) Save(ctx context.Context, it *models.Itinerary) (*SaveResult, error) {
	raw, err := it.MarshalPayload()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize itinerary: %w", err)
	}

	id := it.ID
	if id == "" {
		id = newID()
	}
	return c.save(ctx, id, raw)
}

// SaveJSON stores an already-serialized record verbatim. The id is taken
// from the document when it parses; otherwise a fresh id is generated and
// the raw bytes are stored as-is.
func (c *Cache) SaveJSON(ctx context.Context, raw []byte) (*SaveResult, error) {
	parsed := models.ParsePayload(raw)
	id := models.FromPayload(parsed).ID
	if id == "" {
		id = newID()
	}
	return c.save(ctx, id, raw)
}

func (c *Cache) save(ctx context.Context, id string, raw []byte) (*SaveResult, error) {
	db, err := c.m.DB(ctx)
	if err != nil {
		c.log.Warn(ctx, "local storage unavailable, cannot save offline", "error", err)
		return nil, ErrUnavailable
	}

	now := time.Now().UTC()
	res := &SaveResult{ID: id, CreatedAt: now, UpdatedAt: now}

	// the read and the replace must see the same record state
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT created_at FROM itineraries WHERE id = ?`, id).Scan(&existing)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			if t, perr := time.Parse(timeLayout, existing); perr == nil {
				res.CreatedAt = t
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO itineraries (id, json, created_at, updated_at, is_offline)
			VALUES (?, ?, ?, ?, 1)
		`, id, string(raw), res.CreatedAt.Format(timeLayout), now.Format(timeLayout))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}

	return res, nil
}

// GetAll lists cached records, most recently created first. Storage failures
// degrade to an empty result.
func (c *Cache) GetAll(ctx context.Context) ([]models.Itinerary, error) {
	db, err := c.db(ctx)
	if err != nil {
		c.log.Warn(ctx, "local storage unavailable, returning no offline records", "error", err)
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, json, created_at, updated_at FROM itineraries ORDER BY created_at DESC`)
	if err != nil {
		c.log.Warn(ctx, "failed to read offline itineraries", "error", err)
		return nil, nil
	}
	defer rows.Close()

	var result []models.Itinerary
	for rows.Next() {
		var id, raw, createdAt string
		var updatedAt sql.NullString
		if err := rows.Scan(&id, &raw, &createdAt, &updatedAt); err != nil {
			c.log.Warn(ctx, "failed to scan offline itinerary", "error", err)
			return nil, nil
		}
		result = append(result, c.toModel(id, raw, createdAt, updatedAt))
	}
	if err := rows.Err(); err != nil {
		c.log.Warn(ctx, "failed to iterate offline itineraries", "error", err)
		return nil, nil
	}
	return result, nil
}

// GetByID returns the cached record, or nil when absent.
func (c *Cache) GetByID(ctx context.Context, id string) (*models.Itinerary, error) {
	db, err := c.db(ctx)
	if err != nil {
		c.log.Warn(ctx, "local storage unavailable, cannot load offline itinerary", "error", err)
		return nil, nil
	}

	var raw, createdAt string
	var updatedAt sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT json, created_at, updated_at FROM itineraries WHERE id = ?`, id).
		Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		c.log.Warn(ctx, "failed to read offline itinerary", "id", id, "error", err)
		return nil, nil
	}

	it := c.toModel(id, raw, createdAt, updatedAt)
	return &it, nil
}

// DeleteByID removes the cached record. Deleting an absent id succeeds.
func (c *Cache) DeleteByID(ctx context.Context, id string) error {
	db, err := c.db(ctx)
	if err != nil {
		c.log.Warn(ctx, "local storage unavailable, cannot delete offline itinerary", "error", err)
		return ErrUnavailable
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM itineraries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	return nil
}

// Exists reports whether a record is pinned to the cache.
func (c *Cache) Exists(ctx context.Context, id string) (bool, error) {
	db, err := c.db(ctx)
	if err != nil {
		return false, nil
	}

	var found string
	err = db.QueryRowContext(ctx, `SELECT id FROM itineraries WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		c.log.Warn(ctx, "failed to check offline itinerary", "id", id, "error", err)
		return false, nil
	}
	return true, nil
}

// toModel merges the stored document with storage metadata. A malformed
// stored document degrades to an empty payload so the read still succeeds.
func (c *Cache) toModel(id, raw, createdAt string, updatedAt sql.NullString) models.Itinerary {
	it := models.FromPayload(models.ParsePayload([]byte(raw)))
	it.ID = id
	it.Downloaded = true
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		it.CreatedAt = t
	}
	if updatedAt.Valid {
		if t, err := time.Parse(timeLayout, updatedAt.String); err == nil {
			it.UpdatedAt = t
		}
	}
	return it
}

// newID builds a collision-improbable identifier for records saved without
// one: base36 unix millis plus a random suffix.
func newID() string {
	suffix, err := shared.MakeRandHexString(4)
	if err != nil {
		suffix = strconv.FormatInt(time.Now().UnixNano()%0xffffffff, 16)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + suffix
}
