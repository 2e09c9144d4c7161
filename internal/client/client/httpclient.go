package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// HTTPClient talks to the itinerary API over REST. Tokens live in memory
// for fast access and in the preferences store for persistence across
// restarts. A 401 triggers a single shared token refresh; concurrent
// requests hitting the same expiry wait for the one in-flight refresh and
// reuse its outcome.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	prefs   preferences.Store
	log     logging.Logger

	mu          sync.RWMutex
	accessToken string

	refresh singleflight.Group
}

// NewHTTPClient returns a client for the API at baseURL. The trailing slash
// is trimmed so endpoint paths can be joined uniformly.
func NewHTTPClient(baseURL string, timeout time.Duration, prefs preferences.Store, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		prefs:   prefs,
		log:     log.With("component", "api-client"),
	}
}

var _ Client = (*HTTPClient)(nil)

// SetTokens installs a credential pair in memory and persists it.
func (c *HTTPClient) SetTokens(ctx context.Context, t Tokens) error {
	c.mu.Lock()
	c.accessToken = t.Access
	c.mu.Unlock()

	if err := c.prefs.Set(ctx, preferences.KeyAccessToken, t.Access); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	if t.Refresh != "" {
		if err := c.prefs.Set(ctx, preferences.KeyRefreshToken, t.Refresh); err != nil {
			return fmt.Errorf("failed to persist refresh token: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) currentAccessToken(ctx context.Context) string {
	c.mu.RLock()
	tok := c.accessToken
	c.mu.RUnlock()
	if tok != "" {
		return tok
	}

	// cold start: fall back to the persisted token
	tok, err := c.prefs.Get(ctx, preferences.KeyAccessToken)
	if err != nil || tok == "" {
		return ""
	}
	c.mu.Lock()
	c.accessToken = tok
	c.mu.Unlock()
	return tok
}

// clearCredentials drops the in-memory token and wipes the whole credential
// store, user info included. Called when the session is beyond recovery.
func (c *HTTPClient) clearCredentials(ctx context.Context) {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()

	if err := c.prefs.Clear(ctx); err != nil {
		c.log.Warn(ctx, "failed to clear stored credentials", "error", err)
	}
}

// refreshAccessToken exchanges the stored refresh token for a new pair.
// All concurrent callers share one exchange via singleflight; whichever
// outcome that exchange produces is the outcome for every waiter. Any
// failure clears stored credentials and comes back as *AuthError.
func (c *HTTPClient) refreshAccessToken(ctx context.Context) error {
	// The refresh must not die with the first caller's context: other
	// requests are waiting on its result.
	bg := context.WithoutCancel(ctx)

	_, err, _ := c.refresh.Do(refreshKey, func() (any, error) {
		if err := c.doRefresh(bg); err != nil {
			c.clearCredentials(bg)
			return nil, &AuthError{Err: err}
		}
		return nil, nil
	})
	return err
}

func (c *HTTPClient) doRefresh(ctx context.Context) error {
	refreshToken, err := c.prefs.Get(ctx, preferences.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to load refresh token: %w", err)
	}
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return fmt.Errorf("failed to serialize refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return &NetworkError{Op: "token refresh", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	tokens, err := extractTokens(raw)
	if err != nil {
		return err
	}

	c.log.Debug(ctx, "access token refreshed")
	return c.SetTokens(ctx, tokens)
}

// extractTokens pulls the credential pair out of an auth response,
// accepting both the long and short field names. A response without an
// access token is a failed exchange even on a 2xx status.
func extractTokens(raw []byte) (Tokens, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Tokens{}, fmt.Errorf("failed to parse auth response: %w", err)
	}

	pick := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := doc[k].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	t := Tokens{
		Access:  pick("access_token", "access"),
		Refresh: pick("refresh_token", "refresh"),
	}
	if t.Access == "" {
		return Tokens{}, ErrNoAccessToken
	}
	return t, nil
}

// do performs one authenticated request, refreshing the session and
// retrying exactly once on a 401. It returns the response body for 2xx,
// ErrNotFound for 404 and *HTTPError otherwise.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	status, raw, err := c.send(ctx, method, path, payload, c.currentAccessToken(ctx))
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}
		status, raw, err = c.send(ctx, method, path, payload, c.currentAccessToken(ctx))
		if err != nil {
			return nil, err
		}
		// a second 401 after a successful refresh is not recoverable
		// by another refresh attempt
	}

	switch {
	case status >= 200 && status < 300:
		return raw, nil
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &HTTPError{Status: status, Body: strings.TrimSpace(string(raw))}
	}
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload any, token string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// Login exchanges credentials for a token pair and persists it. The raw
// response is returned so callers can pick up profile fields the server
// includes alongside the tokens.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) ([]byte, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Register creates an account and persists the issued token pair.
func (c *HTTPClient) Register(ctx context.Context, email string, password []byte) ([]byte, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

func (c *HTTPClient) authenticate(ctx context.Context, path, email string, password []byte) ([]byte, error) {
	payload := map[string]string{"email": email, "password": string(password)}

	status, raw, err := c.send(ctx, http.MethodPost, path, payload, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &HTTPError{Status: status, Body: strings.TrimSpace(string(raw))}
	}

	tokens, err := extractTokens(raw)
	if err != nil {
		return nil, err
	}
	if err := c.SetTokens(ctx, tokens); err != nil {
		return nil, err
	}
	return raw, nil
}

// Logout tells the server to invalidate the session and clears stored
// credentials. Local credentials are cleared even when the server call
// fails; being logged out must not depend on connectivity.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, _, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, c.currentAccessToken(ctx))
	if err != nil {
		c.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
	}
	c.clearCredentials(ctx)
	return nil
}

func (c *HTTPClient) ListItineraries(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/itineraries", nil)
}

func (c *HTTPClient) GetItinerary(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/itineraries/"+id, nil)
}

func (c *HTTPClient) CreateItinerary(ctx context.Context, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/itineraries", payload)
}

func (c *HTTPClient) UpdateItinerary(ctx context.Context, id string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, "/itineraries/"+id, payload)
}

func (c *HTTPClient) DeleteItinerary(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/itineraries/"+id, nil)
	return err
}

// Close releases idle transport connections.
func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}
