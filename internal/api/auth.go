package api

import (
	"context"

	"github.com/libradesk/libradesk/internal/entities"
)

// Credentials are exchanged for a principal and a bearer token. The password
// travels to the remote store verbatim; hashing and issuance are its job.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the remote store's answer to a successful login.
type LoginResponse struct {
	User  entities.Principal `json:"user"`
	Token string             `json:"token"`
}

// SignupRequest registers a new staff account through the public endpoint.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login exchanges credentials for a principal and bearer token. An invalid
// credential maps to ErrUnauthorized and nothing is persisted by this layer.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*entities.StaffUser, error) {
	var user entities.StaffUser
	if err := c.post(ctx, "/auth/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
