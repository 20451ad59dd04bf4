package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/libradesk/libradesk/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_Set_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Set(entities.SettingKeyToken, "bearer-value")
	require.NoError(t, err)

	value, err := repo.Get(entities.SettingKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "bearer-value", value)
}

func TestRepository_Set_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Set("slot", "first"))
	require.NoError(t, repo.Set("slot", "second"))

	value, err := repo.Get("slot")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestRepository_Get_NotSet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get("nonexistent")
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Set("to-delete", "value"))
	require.NoError(t, repo.Delete("to-delete"))

	_, err := repo.Get("to-delete")
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestRepository_Delete_NonExistent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, repo.Delete("nonexistent"))
}

func TestRepository_JSONRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	in := entities.Principal{ID: 3, Username: "admin", Role: entities.RoleAdmin}
	require.NoError(t, repo.SetJSON(entities.SettingKeyUser, in))

	var out entities.Principal
	require.NoError(t, repo.GetJSON(entities.SettingKeyUser, &out))
	assert.Equal(t, in, out)
}

func TestRepository_GetJSON_CorruptValue(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Set(entities.SettingKeyUser, "{not-json"))

	var out entities.Principal
	assert.Error(t, repo.GetJSON(entities.SettingKeyUser, &out))
}
