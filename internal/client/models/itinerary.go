// Package models defines client-side data models for the TravelBuddy CLI.
package models

import (
	"encoding/json"
	"math"
	"time"
)

// Itinerary is a travel itinerary record. The payload is an opaque,
// schema-flexible document: the backend has gone through several schema
// generations, so logical attributes are resolved through fixed precedence
// lists (see Destination, StartDate, Activities) instead of struct fields.
type Itinerary struct {
	// ID is the stable identity of the record. Server-assigned for records
	// created online, client-generated otherwise.
	ID string

	// Payload is the full itinerary document as received or stored.
	Payload map[string]any

	// CreatedAt / UpdatedAt are stamped by the layer that persisted the record.
	CreatedAt time.Time
	UpdatedAt time.Time

	// Downloaded is true once the record has been pinned to the offline cache.
	Downloaded bool
}

// Activity is one activity entry inside an itinerary document.
type Activity map[string]any

// FromPayload builds an Itinerary from a raw document, resolving the id
// from "id" then "_id".
func FromPayload(payload map[string]any) Itinerary {
	if payload == nil {
		payload = map[string]any{}
	}
	return Itinerary{
		ID:      stringField(payload, "id", "_id"),
		Payload: payload,
	}
}

// ParsePayload decodes a stored JSON document. Malformed input degrades to
// an empty document rather than failing the read.
func ParsePayload(raw []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// MarshalPayload serializes the payload, making sure the record id is
// embedded in the document.
func (it Itinerary) MarshalPayload() ([]byte, error) {
	m := it.Payload
	if m == nil {
		m = map[string]any{}
	}
	if it.ID != "" {
		if cur := stringField(m, "id"); cur != it.ID {
			copied := make(map[string]any, len(m)+1)
			for k, v := range m {
				copied[k] = v
			}
			copied["id"] = it.ID
			m = copied
		}
	}
	return json.Marshal(m)
}

// Destination resolves the destination attribute.
// Precedence: destination → to → name → title → "Unknown Destination".
func (it Itinerary) Destination() string {
	if s := stringField(it.Payload, "destination", "to", "name", "title"); s != "" {
		return s
	}
	return "Unknown Destination"
}

// StartDate resolves the start date attribute.
// Precedence: start_date → startDate → dates[0].start → day_plans[0].date →
// activities[0].date. Returns "" when no source matches.
func (it Itinerary) StartDate() string {
	if s := stringField(it.Payload, "start_date", "startDate"); s != "" {
		return s
	}
	if dates, ok := it.Payload["dates"].([]any); ok && len(dates) > 0 {
		if d, ok := dates[0].(map[string]any); ok {
			if s := stringField(d, "start"); s != "" {
				return s
			}
		}
	}
	if plans, ok := it.Payload["day_plans"].([]any); ok && len(plans) > 0 {
		if p, ok := plans[0].(map[string]any); ok {
			if s := stringField(p, "date"); s != "" {
				return s
			}
		}
	}
	if acts, ok := it.Payload["activities"].([]any); ok && len(acts) > 0 {
		if a, ok := acts[0].(map[string]any); ok {
			if s := stringField(a, "date"); s != "" {
				return s
			}
		}
	}
	return ""
}

// Activities resolves the activity list.
// The current schema nests activities under day_plans[].activities[]; each
// flattened activity carries its day context (day, dayDate, dayTitle,
// dayTheme). Legacy documents fall back to activities → items → places.
func (it Itinerary) Activities() []Activity {
	if plans, ok := it.Payload["day_plans"].([]any); ok {
		var all []Activity
		for _, raw := range plans {
			plan, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			acts, ok := plan["activities"].([]any)
			if !ok {
				continue
			}
			for _, ra := range acts {
				a, ok := ra.(map[string]any)
				if !ok {
					continue
				}
				flat := make(Activity, len(a)+4)
				for k, v := range a {
					flat[k] = v
				}
				flat["day"] = plan["day"]
				flat["dayDate"] = plan["date"]
				flat["dayTitle"] = plan["title"]
				flat["dayTheme"] = plan["theme"]
				all = append(all, flat)
			}
		}
		if len(all) > 0 {
			return all
		}
	}

	for _, key := range []string{"activities", "items", "places"} {
		if raw, ok := it.Payload[key].([]any); ok && len(raw) > 0 {
			result := make([]Activity, 0, len(raw))
			for _, ra := range raw {
				if a, ok := ra.(map[string]any); ok {
					result = append(result, Activity(a))
				}
			}
			return result
		}
	}
	return nil
}

// ActivityCount returns the total number of activities across day plans,
// falling back to the length of the legacy activity lists.
func (it Itinerary) ActivityCount() int {
	if plans, ok := it.Payload["day_plans"].([]any); ok {
		total := 0
		for _, raw := range plans {
			if plan, ok := raw.(map[string]any); ok {
				if acts, ok := plan["activities"].([]any); ok {
					total += len(acts)
				}
			}
		}
		return total
	}
	for _, key := range []string{"activities", "items", "places"} {
		if raw, ok := it.Payload[key].([]any); ok {
			return len(raw)
		}
	}
	return 0
}

// DurationDays resolves the trip duration in days.
// Precedence: duration_days → (end_date - start_date) → len(day_plans).
func (it Itinerary) DurationDays() int {
	if n, ok := numField(it.Payload, "duration_days"); ok && n > 0 {
		return int(n)
	}

	start := stringField(it.Payload, "start_date")
	end := stringField(it.Payload, "end_date")
	if start != "" && end != "" {
		if s, errS := parseDate(start); errS == nil {
			if e, errE := parseDate(end); errE == nil {
				days := int(math.Ceil(math.Abs(e.Sub(s).Hours()) / 24))
				if days == 0 {
					days = 1
				}
				return days
			}
		}
	}

	if plans, ok := it.Payload["day_plans"].([]any); ok {
		return len(plans)
	}
	return 0
}

// Coordinates resolves the activity position as (lon, lat).
// Longitude precedence: lon → longitude → lng → long → coordinates[0] →
// coords[0]; latitude: lat → latitude → coordinates[1] → coords[1]; a nested
// location object is consulted when the top level is incomplete. Values
// outside [-180,180]×[-90,90] are rejected.
func (a Activity) Coordinates() (lon, lat float64, ok bool) {
	m := map[string]any(a)

	lon, lonOK := numField(m, "lon", "longitude", "lng", "long")
	if !lonOK {
		lon, lonOK = indexField(m, 0, "coordinates", "coords")
	}
	lat, latOK := numField(m, "lat", "latitude")
	if !latOK {
		lat, latOK = indexField(m, 1, "coordinates", "coords")
	}

	if (!lonOK || !latOK) && m["location"] != nil {
		if loc, isMap := m["location"].(map[string]any); isMap {
			locLon, locLonOK := numField(loc, "lon", "longitude", "lng")
			locLat, locLatOK := numField(loc, "lat", "latitude")
			if locLonOK && locLatOK {
				lon, lat, lonOK, latOK = locLon, locLat, true, true
			}
		}
	}

	if !lonOK || !latOK {
		return 0, 0, false
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	return lon, lat, true
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// stringField returns the first non-empty string value among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// numField returns the first numeric value among keys. String values that
// parse as numbers are accepted: legacy documents stored coordinates as text.
func numField(m map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if n, ok := toFloat(m[key]); ok {
			return n, true
		}
	}
	return 0, false
}

// indexField returns element idx of the first list-valued key.
func indexField(m map[string]any, idx int, keys ...string) (float64, bool) {
	for _, key := range keys {
		if list, ok := m[key].([]any); ok && idx < len(list) {
			if n, ok := toFloat(list[idx]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		var f float64
		if err := json.Unmarshal([]byte(n), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
