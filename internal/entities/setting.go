package entities

import "time"

// Setting is a durable client-side key-value slot. Identity survives a
// process restart through the "user" and "token" slots; both are written on
// login and purged on logout.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys.
const (
	// Session slots. The fixed names mirror the browser console this tool
	// replaced, so a migrated state database keeps working.
	SettingKeyUser  = "user"
	SettingKeyToken = "token"

	// Snapshot bookkeeping.
	SettingKeySnapshotLastAt      = "snapshot_last_at"
	SettingKeySnapshotLastStatus  = "snapshot_last_status"
	SettingKeySnapshotLastMessage = "snapshot_last_message"
)
