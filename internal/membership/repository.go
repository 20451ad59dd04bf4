// Package membership is the repository for member and staff records.
// Member and staff management are admin-only views; required-field
// validation happens locally and a failing validation never issues a
// request.
package membership

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/outcome"
	"github.com/libradesk/libradesk/internal/session"
)

// Refresher schedules a background snapshot refresh after a successful
// mutation. May be nil when the task queue is disabled.
type Refresher interface {
	RefreshCatalog() error
}

// Repository provides member and staff operations against the remote store.
type Repository struct {
	client  *api.Client
	sess    *session.Session
	cache   *snapshot.Repository
	refresh Refresher
}

func NewRepository(client *api.Client, sess *session.Session, cache *snapshot.Repository, refresh Refresher) *Repository {
	return &Repository{client: client, sess: sess, cache: cache, refresh: refresh}
}

// ListMembers fetches all members. Admin-only; falls back to the snapshot
// when the remote store is unreachable.
func (r *Repository) ListMembers(ctx context.Context) ([]entities.Member, error) {
	const op = "membership.list_members"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	members, err := r.client.ListMembers(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return []entities.Member{}, nil
		}
		log.Printf("membership: remote list failed, serving snapshot: %v", err)
		cached, cacheErr := r.cache.Members()
		if cacheErr != nil {
			return nil, api.WrapOutcome(op, err)
		}
		return cached, nil
	}
	return members, nil
}

// CreateMember validates all required fields locally, then creates the
// member and returns the authoritative record.
func (r *Repository) CreateMember(ctx context.Context, fields api.MemberFields) (*entities.Member, error) {
	const op = "membership.create_member"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	if err := validateMemberFields(op, fields); err != nil {
		return nil, err
	}

	member, err := r.client.CreateMember(ctx, fields)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return member, nil
}

// UpdateMember applies a partial update.
func (r *Repository) UpdateMember(ctx context.Context, id uint, patch api.MemberPatch) (*entities.Member, error) {
	const op = "membership.update_member"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}

	member, err := r.client.UpdateMember(ctx, id, patch)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return member, nil
}

// DeleteMember removes a member. Rejection or cascade of members with
// active borrows is the remote store's policy, not enforced here.
func (r *Repository) DeleteMember(ctx context.Context, id uint) error {
	const op = "membership.delete_member"
	if err := r.sess.RequireAdmin(op); err != nil {
		return err
	}
	if err := r.client.DeleteMember(ctx, id); err != nil {
		return api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return nil
}

// ListStaff fetches all staff accounts. Admin-only.
func (r *Repository) ListStaff(ctx context.Context) ([]entities.StaffUser, error) {
	const op = "membership.list_staff"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	staff, err := r.client.ListStaff(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return []entities.StaffUser{}, nil
		}
		return nil, api.WrapOutcome(op, err)
	}
	return staff, nil
}

// CreateStaff creates a staff account with the fixed default credential,
// which must be communicated to the new operator out-of-band.
func (r *Repository) CreateStaff(ctx context.Context, username, email string, role entities.Role) (*entities.StaffUser, error) {
	const op = "membership.create_staff"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(username) == "":
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "username is required")
	case strings.TrimSpace(email) == "":
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "email is required")
	case !role.Valid():
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "role must be admin or librarian")
	}

	user, err := r.client.CreateStaff(ctx, username, email, role)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	return user, nil
}

// UpdateStaff applies a partial update to a staff account.
func (r *Repository) UpdateStaff(ctx context.Context, id uint, patch api.StaffPatch) (*entities.StaffUser, error) {
	const op = "membership.update_staff"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	if patch.Role != nil && !entities.Role(*patch.Role).Valid() {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "role must be admin or librarian")
	}

	user, err := r.client.UpdateStaff(ctx, id, patch)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	return user, nil
}

// DeleteStaff removes a staff account.
func (r *Repository) DeleteStaff(ctx context.Context, id uint) error {
	const op = "membership.delete_staff"
	if err := r.sess.RequireAdmin(op); err != nil {
		return err
	}
	if err := r.client.DeleteStaff(ctx, id); err != nil {
		return api.WrapOutcome(op, err)
	}
	return nil
}

func (r *Repository) scheduleRefresh() {
	if r.refresh == nil {
		return
	}
	if err := r.refresh.RefreshCatalog(); err != nil {
		log.Printf("membership: failed to schedule snapshot refresh: %v", err)
	}
}

func validateMemberFields(op string, fields api.MemberFields) error {
	switch {
	case strings.TrimSpace(fields.Name) == "":
		return outcome.Errorf(outcome.ReasonValidation, op, "name is required")
	case strings.TrimSpace(fields.Email) == "":
		return outcome.Errorf(outcome.ReasonValidation, op, "email is required")
	case strings.TrimSpace(fields.Phone) == "":
		return outcome.Errorf(outcome.ReasonValidation, op, "phone is required")
	case strings.TrimSpace(fields.JoinDate) == "":
		return outcome.Errorf(outcome.ReasonValidation, op, "join_date is required")
	default:
		return nil
	}
}
