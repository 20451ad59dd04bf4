package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/libradesk/libradesk/internal/entities"
)

// DefaultStaffPassword is the fixed credential set on newly created staff
// accounts. It must be communicated out-of-band and changed on first login;
// credential management itself lives in the remote store.
const DefaultStaffPassword = "password123"

// StaffFields is the payload for creating a staff account.
type StaffFields struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// StaffPatch carries a partial staff update. Passwords are never patched
// through the console.
type StaffPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// ListStaff fetches all staff accounts.
func (c *Client) ListStaff(ctx context.Context) ([]entities.StaffUser, error) {
	var staff []entities.StaffUser
	if err := c.get(ctx, "/auth/users", &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// CreateStaff creates a staff account with the fixed default credential.
func (c *Client) CreateStaff(ctx context.Context, username, email string, role entities.Role) (*entities.StaffUser, error) {
	fields := StaffFields{
		Username: username,
		Email:    email,
		Role:     string(role),
		Password: DefaultStaffPassword,
	}
	var user entities.StaffUser
	if err := c.send(ctx, http.MethodPost, "/staff", fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStaff applies a partial update to a staff account.
func (c *Client) UpdateStaff(ctx context.Context, id uint, patch StaffPatch) (*entities.StaffUser, error) {
	var user entities.StaffUser
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/staff/%d", id), patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteStaff removes a staff account.
func (c *Client) DeleteStaff(ctx context.Context, id uint) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/staff/%d", id), nil, nil)
}
