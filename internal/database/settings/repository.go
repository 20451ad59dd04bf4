// Package settings provides the durable key-value slots, including the
// fixed "user" and "token" slots that let the operator's identity survive a
// process restart.
package settings

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/gorm"

	"github.com/libradesk/libradesk/internal/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotSet indicates the slot holds no value.
var ErrNotSet = errors.New("setting is not set")

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves a slot value. Returns ErrNotSet for an absent key.
func (r *Repository) Get(key string) (string, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotSet
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set creates or updates a slot.
func (r *Repository) Set(key, value string) error {
	var setting entities.Setting
	result := r.db.Where("key = ?", key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = entities.Setting{Key: key, Value: value}
		return r.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}

// Delete purges a slot. Deleting an absent key is not an error.
func (r *Repository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// GetJSON decodes a slot holding a serialized value, e.g. the principal in
// the "user" slot.
func (r *Repository) GetJSON(key string, out any) error {
	value, err := r.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(value), out)
}

// SetJSON serializes a value into a slot.
func (r *Repository) SetJSON(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(key, string(payload))
}
