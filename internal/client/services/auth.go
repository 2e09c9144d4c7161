// Package services holds the application logic sitting between the CLI and
// the transport/storage layers: session management and offline-first
// itinerary access.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/client/client"
	"github.com/dmitrijs2005/travelbuddy/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/travelbuddy/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated is returned by session queries when no user is
// logged in.
var ErrNotAuthenticated = errors.New("not authenticated")

// UserInfo is the profile snapshot kept alongside the session.
type UserInfo struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// AuthService manages the user session: login, registration, logout and
// queries about the current session.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Register(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*UserInfo, error)
	SessionExpiry(ctx context.Context) (time.Time, error)
}

type authService struct {
	api   client.Client
	prefs preferences.Store
	log   logging.Logger
}

// NewAuthService returns the AuthService implementation.
func NewAuthService(api client.Client, prefs preferences.Store, log logging.Logger) AuthService {
	return &authService{api: api, prefs: prefs, log: log.With("component", "auth-service")}
}

func (s *authService) Login(ctx context.Context, email string, password []byte) error {
	raw, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.storeUserInfo(ctx, email, raw)
	s.log.Info(ctx, "logged in", "email", email)
	return nil
}

func (s *authService) Register(ctx context.Context, email string, password []byte) error {
	raw, err := s.api.Register(ctx, email, password)
	if err != nil {
		return err
	}
	s.storeUserInfo(ctx, email, raw)
	s.log.Info(ctx, "registered", "email", email)
	return nil
}

// storeUserInfo persists the profile from an auth response. A server that
// returns no profile object still leaves the login email on record.
func (s *authService) storeUserInfo(ctx context.Context, email string, raw []byte) {
	info := UserInfo{Email: email}

	var doc struct {
		User *UserInfo `json:"user"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && doc.User != nil {
		info = *doc.User
		if info.Email == "" {
			info.Email = email
		}
	}

	b, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.prefs.Set(ctx, preferences.KeyUserInfo, string(b)); err != nil {
		s.log.Warn(ctx, "failed to persist user info", "error", err)
	}
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	if err := s.prefs.Delete(ctx, preferences.KeyUserInfo); err != nil {
		s.log.Warn(ctx, "failed to clear user info", "error", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *authService) IsAuthenticated(ctx context.Context) bool {
	tok, err := s.prefs.Get(ctx, preferences.KeyAccessToken)
	return err == nil && tok != ""
}

// CurrentUser returns the stored profile, falling back to claims embedded
// in the access token when no profile was persisted.
func (s *authService) CurrentUser(ctx context.Context) (*UserInfo, error) {
	if raw, err := s.prefs.Get(ctx, preferences.KeyUserInfo); err == nil && raw != "" {
		var info UserInfo
		if err := json.Unmarshal([]byte(raw), &info); err == nil && info.Email != "" {
			return &info, nil
		}
	}

	claims, err := s.accessClaims(ctx)
	if err != nil {
		return nil, err
	}

	info := &UserInfo{}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if sub, ok := claims["sub"].(string); ok {
		info.ID = sub
		if info.Email == "" {
			info.Email = sub
		}
	}
	if info.Email == "" {
		return nil, ErrNotAuthenticated
	}
	return info, nil
}

// SessionExpiry returns the expiry of the current access token.
func (s *authService) SessionExpiry(ctx context.Context) (time.Time, error) {
	claims, err := s.accessClaims(ctx)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read token expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, errors.New("access token carries no expiry")
	}
	return exp.Time, nil
}

// accessClaims parses the stored access token without verifying its
// signature. Verification is the server's job; locally the claims are only
// informational.
func (s *authService) accessClaims(ctx context.Context) (jwt.MapClaims, error) {
	tok, err := s.prefs.Get(ctx, preferences.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load access token: %w", err)
	}
	if tok == "" {
		return nil, ErrNotAuthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims, nil
}
