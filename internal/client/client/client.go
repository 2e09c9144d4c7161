// Package client implements the authenticated API client: a thin REST
// wrapper that attaches bearer tokens, transparently refreshes an expired
// session exactly once per expiry, and maps server responses to typed
// errors the rest of the app can branch on.
package client

import "context"

// Tokens is the credential pair issued by the server on login, register
// and refresh.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Client is the remote API surface used by the services layer.
//
// All methods return raw response documents; interpretation of the payload
// shape is left to the models package. A 404 on a record operation maps to
// ErrNotFound, an unrecoverable session failure to *AuthError, a transport
// failure to *NetworkError and any other non-success status to *HTTPError.
type Client interface {
	Login(ctx context.Context, email string, password []byte) ([]byte, error)
	Register(ctx context.Context, email string, password []byte) ([]byte, error)
	Logout(ctx context.Context) error

	ListItineraries(ctx context.Context) ([]byte, error)
	GetItinerary(ctx context.Context, id string) ([]byte, error)
	CreateItinerary(ctx context.Context, payload any) ([]byte, error)
	UpdateItinerary(ctx context.Context, id string, payload any) ([]byte, error)
	DeleteItinerary(ctx context.Context, id string) error

	Close() error
}
