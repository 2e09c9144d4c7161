package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func setupAuth(t *testing.T) (AuthService, *fakeClient, preferences.Store) {
	t.Helper()
	api := &fakeClient{}
	prefs := preferences.NewMemoryStore()
	return NewAuthService(api, prefs, logging.NewDefault()), api, prefs
}

func TestAuthService_Login_StoresProfile(t *testing.T) {
	svc, api, prefs := setupAuth(t)
	ctx := context.Background()
	api.loginResp = []byte(`{"access_token":"a1","user":{"id":"u1","email":"a@b.c","name":"Alice"}}`)

	require.NoError(t, svc.Login(ctx, "a@b.c", []byte("secret")))
	assert.Equal(t, []string{"login"}, api.recorded())

	// the client persists tokens itself; the service only keeps the profile
	raw, err := prefs.Get(ctx, preferences.KeyUserInfo)
	require.NoError(t, err)
	assert.Contains(t, raw, "Alice")

	info, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", info.Email)
	assert.Equal(t, "Alice", info.Name)
}

func TestAuthService_Login_NoProfileInResponse(t *testing.T) {
	svc, api, _ := setupAuth(t)
	ctx := context.Background()
	api.loginResp = []byte(`{"access_token":"a1"}`)

	require.NoError(t, svc.Login(ctx, "a@b.c", []byte("secret")))

	info, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", info.Email)
}

func TestAuthService_CurrentUser_FallsBackToTokenClaims(t *testing.T) {
	svc, _, prefs := setupAuth(t)
	ctx := context.Background()

	tok := signedToken(t, jwt.MapClaims{"sub": "u1", "email": "claims@b.c"})
	require.NoError(t, prefs.Set(ctx, preferences.KeyAccessToken, tok))

	info, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "claims@b.c", info.Email)
	assert.Equal(t, "u1", info.ID)
}

func TestAuthService_CurrentUser_NotAuthenticated(t *testing.T) {
	svc, _, _ := setupAuth(t)

	_, err := svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthService_IsAuthenticated(t *testing.T) {
	svc, _, prefs := setupAuth(t)
	ctx := context.Background()

	assert.False(t, svc.IsAuthenticated(ctx))

	require.NoError(t, prefs.Set(ctx, preferences.KeyAccessToken, "a1"))
	assert.True(t, svc.IsAuthenticated(ctx))
}

func TestAuthService_SessionExpiry(t *testing.T) {
	svc, _, prefs := setupAuth(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	require.NoError(t, prefs.Set(ctx, preferences.KeyAccessToken, tok))

	got, err := svc.SessionExpiry(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	t.Run("token without expiry", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": "u1"})
		require.NoError(t, prefs.Set(ctx, preferences.KeyAccessToken, tok))

		_, err := svc.SessionExpiry(ctx)
		assert.Error(t, err)
	})
}

func TestAuthService_Logout_ClearsProfile(t *testing.T) {
	svc, api, prefs := setupAuth(t)
	ctx := context.Background()
	api.loginResp = []byte(`{"access_token":"a1","user":{"email":"a@b.c"}}`)

	require.NoError(t, svc.Login(ctx, "a@b.c", []byte("secret")))
	require.NoError(t, svc.Logout(ctx))

	assert.Equal(t, []string{"login", "logout"}, api.recorded())
	raw, err := prefs.Get(ctx, preferences.KeyUserInfo)
	require.NoError(t, err)
	assert.Empty(t, raw)
}
