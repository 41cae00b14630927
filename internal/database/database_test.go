package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"lostfound/internal/config"
	"lostfound/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "postgres", DBHost: "localhost", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create claim: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestConnect_SQLiteAndAutoMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "lostfound.db"),
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, AutoMigrate(db))

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	item := models.Item{ItemType: models.ItemTypeLost, Status: models.ItemStatusLost, Title: "wallet", PostedByID: user.ID}
	require.NoError(t, db.Create(&item).Error)

	first := models.Claim{ClaimType: models.ClaimTypeFoundIt, Status: models.ClaimStatusPending, ItemID: item.ID, UserID: user.ID}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Claim{ClaimType: models.ClaimTypeOwnIt, Status: models.ClaimStatusPending, ItemID: item.ID, UserID: user.ID}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "got %v", err)

	// A resolved claim does not block a new pending one.
	require.NoError(t, db.Model(&first).Update("status", models.ClaimStatusRejected).Error)
	require.NoError(t, db.Create(&models.Claim{ClaimType: models.ClaimTypeOwnIt, Status: models.ClaimStatusPending, ItemID: item.ID, UserID: user.ID}).Error)
}
