package api

import (
	"context"
	"net/http"
	"net/url"
)

// AuthService provides login and registration.
type AuthService struct {
	client *Client
}

// Login exchanges a username and password for a bearer token and role. The
// token is installed on the client so subsequent requests carry it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Credentials, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var creds Credentials
	if err := s.client.http.requestForm(ctx, "/auth/login", form, &creds); err != nil {
		return nil, err
	}
	s.client.SetToken(creds.AccessToken)
	return &creds, nil
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a new account with the given role.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) error {
	return s.client.http.requestJSON(ctx, http.MethodPost, "/auth/register", req, nil)
}
