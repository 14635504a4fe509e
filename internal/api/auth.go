package api

import (
	"context"

	"github.com/Kiran-879/ResumePilot/internal/types"
)

// AuthService is the typed facade over the /auth/ endpoints.
type AuthService struct {
	client *Client
}

// Register creates a new account. Validation failures come back as an
// *errors.APIError with field-level detail; registration never touches the
// current session.
func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.UserProfile, error) {
	var user types.UserProfile
	if err := s.client.sendJSON(ctx, "POST", "/auth/register/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns the issued token. Persisting the token is
// the session layer's job, not this service's.
func (s *AuthService) Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	if err := s.client.sendJSON(ctx, "POST", "/auth/login/", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the authenticated user. Requires a token on the client.
func (s *AuthService) Profile(ctx context.Context) (*types.UserProfile, error) {
	var user types.UserProfile
	if err := s.client.getJSON(ctx, "/auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
