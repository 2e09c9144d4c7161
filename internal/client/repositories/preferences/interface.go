// Package preferences is a small persisted key/value store for client-side
// settings and credentials (access token, refresh token, user info).
package preferences

import "context"

// Well-known preference keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserInfo     = "user_info"
)

// Store persists string values by key. Get returns "" for an absent key;
// Delete of an absent key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
