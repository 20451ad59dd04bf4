package entities

import "time"

// Member is a registered library member.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	Email     string    `gorm:"index;size:255" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	JoinDate  string    `gorm:"size:10" json:"join_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// Summary reduces a member to the fields embedded in borrow records.
// The remote store serves this reduced shape inside ledger responses.
func (m Member) Summary() MemberSummary {
	return MemberSummary{ID: m.ID, Name: m.Name, Email: m.Email}
}

// MemberSummary is the reduced member representation embedded in ledger
// entries, as opposed to the full Member served by the members resource.
type MemberSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Role is the sole authorization axis of the console.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
)

// Valid reports whether the role is one the remote store issues.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// StaffUser is a console operator account held by the remote store.
// Passwords never reach this client; the remote service owns credentials.
type StaffUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Role      Role      `gorm:"size:20" json:"role"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	JoinDate  string    `gorm:"size:10" json:"join_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}
