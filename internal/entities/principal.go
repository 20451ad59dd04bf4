package entities

// Principal is the authenticated identity returned by the remote store on
// login and persisted in the durable session slot.
type Principal struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the principal may use the admin-only views
// (members, staff, genres, reports). This is a UX-level guard only; the
// remote store re-checks authorization on every request it receives.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
