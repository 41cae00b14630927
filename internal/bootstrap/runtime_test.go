package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"lostfound/internal/config"
	"lostfound/internal/database"
	"lostfound/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func devConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:              "development",
		DBDriver:         "sqlite",
		DBSQLitePath:     filepath.Join(t.TempDir(), "bootstrap.db"),
		DBSchemaMode:     "auto",
		DevBootstrapRoot: true,
		DevRootUsername:  "root",
		DevRootEmail:     "Root@Example.com",
		DevRootPassword:  "Sup3r-secret!",
	}
}

func TestEnsureDevRootAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := devConfig(t)

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.ApplySchema(ctx, db, cfg))

	require.NoError(t, EnsureDevRootAdmin(ctx, cfg, db))

	var root models.User
	require.NoError(t, db.Where("username = ?", "root").First(&root).Error)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.Equal(t, "root@example.com", root.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("Sup3r-secret!")))

	// A demoted, suspended root is restored on the next boot.
	require.NoError(t, db.Model(&root).Updates(map[string]any{"role": models.RoleUser, "is_active": false}).Error)
	require.NoError(t, EnsureDevRootAdmin(ctx, cfg, db))

	var again models.User
	require.NoError(t, db.First(&again, root.ID).Error)
	assert.Equal(t, models.RoleAdmin, again.Role)
	assert.True(t, again.IsActive)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureDevRootAdmin_Skipped(t *testing.T) {
	ctx := context.Background()

	cfg := devConfig(t)
	cfg.Env = "production"
	assert.NoError(t, EnsureDevRootAdmin(ctx, cfg, nil))

	cfg = devConfig(t)
	cfg.DevRootPassword = ""
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	assert.Error(t, EnsureDevRootAdmin(ctx, cfg, db))

	cfg.DevBootstrapRoot = false
	assert.NoError(t, EnsureDevRootAdmin(ctx, cfg, db))
}
