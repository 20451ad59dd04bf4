package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/libradesk/libradesk/internal/entities"
)

// MemberFields is the payload for creating or replacing a member's details.
type MemberFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JoinDate string `json:"join_date"`
}

// MemberPatch carries a partial member update.
type MemberPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	JoinDate *string `json:"join_date,omitempty"`
}

// ListMembers fetches all members.
func (c *Client) ListMembers(ctx context.Context) ([]entities.Member, error) {
	var members []entities.Member
	if err := c.get(ctx, "/members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CreateMember creates a member and returns the authoritative record.
func (c *Client) CreateMember(ctx context.Context, fields MemberFields) (*entities.Member, error) {
	var member entities.Member
	if err := c.send(ctx, http.MethodPost, "/members", fields, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember applies a partial update.
func (c *Client) UpdateMember(ctx context.Context, id uint, patch MemberPatch) (*entities.Member, error) {
	var member entities.Member
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/members/%d", id), patch, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember removes a member. The remote store decides whether deletion
// with active borrow records is rejected or cascaded.
func (c *Client) DeleteMember(ctx context.Context, id uint) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/members/%d", id), nil, nil)
}
