package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"lostfound/internal/authz"
	"lostfound/internal/config"
	"lostfound/internal/database"
	"lostfound/internal/models"
	"lostfound/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userSeq atomic.Int64

// setupServiceDB opens a file-backed SQLite database. The pool is limited to
// one connection, so concurrent transactions serialize like row locks would.
func setupServiceDB(t *testing.T) (*gorm.DB, *repository.Store) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "service.db"),
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	return db, repository.NewStore(db)
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createItem(t *testing.T, db *gorm.DB, poster *models.User, itemType models.ItemType) *models.Item {
	t.Helper()
	item := &models.Item{
		ItemType:        itemType,
		Status:          models.InitialStatus(itemType),
		ModerationState: models.ModerationStateNone,
		Title:           "Black leather wallet",
		PostedByID:      poster.ID,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func createClaim(t *testing.T, db *gorm.DB, item *models.Item, claimant *models.User, claimType models.ClaimType) *models.Claim {
	t.Helper()
	claim := &models.Claim{
		ClaimType: claimType,
		Status:    models.ClaimStatusPending,
		ItemID:    item.ID,
		UserID:    claimant.ID,
	}
	require.NoError(t, db.Create(claim).Error)
	return claim
}

func actorFor(u *models.User) *authz.Actor {
	return &authz.Actor{UserID: u.ID, Role: u.Role}
}

func reloadItem(t *testing.T, db *gorm.DB, id uint) *models.Item {
	t.Helper()
	var item models.Item
	require.NoError(t, db.First(&item, id).Error)
	return &item
}

func reloadClaim(t *testing.T, db *gorm.DB, id uint) *models.Claim {
	t.Helper()
	var claim models.Claim
	require.NoError(t, db.First(&claim, id).Error)
	return &claim
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

func fixedClock() Clock {
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

var bg = context.Background()
