package seed

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
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	db, err := database.Connect(&config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "seed.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	db := setupSeedDB(t)
	s := NewSeeder(db)

	res, err := s.Run(ctx, Options{NumUsers: 6, NumItems: 5, ClaimsPerItem: 3, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Users)
	assert.Equal(t, 5, res.Items)
	assert.Equal(t, 15, res.Claims)

	var selfClaims int64
	require.NoError(t, db.Model(&models.Claim{}).
		Joins("JOIN items ON items.id = claims.item_id").
		Where("items.posted_by_id = claims.user_id").
		Count(&selfClaims).Error)
	assert.Zero(t, selfClaims)

	var staff int64
	require.NoError(t, db.Model(&models.User{}).Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleModerator}).Count(&staff).Error)
	assert.Equal(t, int64(2), staff)

	var u models.User
	require.NoError(t, db.First(&u).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))

	require.NoError(t, s.ClearAll(ctx))
	var remaining int64
	require.NoError(t, db.Model(&models.User{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestSeeder_RunNeedsUsers(t *testing.T) {
	db := setupSeedDB(t)
	_, err := NewSeeder(db).Run(context.Background(), Options{NumUsers: 1})
	assert.Error(t, err)
}

func TestSeeder_ApplyFixture(t *testing.T) {
	ctx := context.Background()
	db := setupSeedDB(t)

	fx, err := LoadFixture(filepath.Join("testdata", "competing_claims.yml"))
	require.NoError(t, err)

	res, err := NewSeeder(db).ApplyFixture(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 7, Items: 2, Claims: 4, Comments: 2}, res)

	var spammer models.User
	require.NoError(t, db.Where("username = ?", "spammer").First(&spammer).Error)
	assert.False(t, spammer.IsActive)

	var root models.User
	require.NoError(t, db.Where("username = ?", "root").First(&root).Error)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("Root-Passw0rd!")))

	var pending int64
	require.NoError(t, db.Model(&models.Claim{}).Where("status = ?", models.ClaimStatusPending).Count(&pending).Error)
	assert.Equal(t, int64(4), pending)
}

func TestSeeder_ApplyFixtureRejectsBadData(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		yaml string
	}{
		{"self claim", `
users: [{username: ann}]
items: [{key: k, type: LOST, title: keys, posted_by: ann}]
claims: [{item: k, claimant: ann, type: FOUND_IT}]
`},
		{"duplicate pending claim", `
users: [{username: ann}, {username: ben}]
items: [{key: k, type: LOST, title: keys, posted_by: ann}]
claims: [{item: k, claimant: ben, type: FOUND_IT}, {item: k, claimant: ben, type: OWN_IT}]
`},
		{"unknown user", `
items: [{key: k, type: LOST, title: keys, posted_by: nobody}]
`},
		{"bad item type", `
users: [{username: ann}]
items: [{key: k, type: STOLEN, title: keys, posted_by: ann}]
`},
		{"bad role", `
users: [{username: ann, role: OWNER}]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupSeedDB(t)
			fx, err := ParseFixture([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = NewSeeder(db).ApplyFixture(ctx, fx)
			require.Error(t, err)

			var users int64
			require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
			assert.Zero(t, users, "fixture is applied atomically")
		})
	}
}

func TestFactory_BuildClaimMatchesItemType(t *testing.T) {
	f := NewFactory(7)
	poster := &models.User{ID: 1}
	claimant := &models.User{ID: 2}

	for i := 0; i < 20; i++ {
		item := f.BuildItem(poster)
		assert.Equal(t, models.InitialStatus(item.ItemType), item.Status)
		assert.NotEmpty(t, item.Title)

		claim := f.BuildClaim(item, claimant)
		assert.Equal(t, models.ClaimStatusPending, claim.Status)
		if item.ItemType == models.ItemTypeLost {
			assert.Equal(t, models.ClaimTypeFoundIt, claim.ClaimType)
		} else {
			assert.Equal(t, models.ClaimTypeOwnIt, claim.ClaimType)
		}
	}

	a := f.BuildUser(models.RoleUser, "x")
	b := f.BuildUser(models.RoleUser, "x")
	assert.NotEqual(t, a.Username, b.Username)
}
