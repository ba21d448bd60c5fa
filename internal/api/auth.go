package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns the same token/identity shape as
// Login.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/register", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// VerifyToken asks the backend whether a stored token is still valid. A 401
// here triggers the client's unauthorized hook like any other call.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.do(ctx, http.MethodPost, "/verify-token", body, nil)
}
