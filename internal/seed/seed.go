package seed

import (
	"context"
	"fmt"
	"log/slog"

	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a generated seed run.
type Options struct {
	NumUsers      int
	NumItems      int
	ClaimsPerItem int
	Seed          int64
}

// Result summarizes what a seed run created.
type Result struct {
	Users    int
	Items    int
	Claims   int
	Comments int
}

// Seeder writes generated or fixture data through the repository layer.
type Seeder struct {
	db    *gorm.DB
	store *repository.Store
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, store: repository.NewStore(db)}
}

// ClearAll deletes every claim, comment, audit row, item and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, model := range []any{
		&models.Comment{},
		&models.Claim{},
		&models.ModerationAudit{},
		&models.Item{},
		&models.User{},
	} {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.Info("seed data cleared")
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Run generates one admin, one moderator and opts.NumUsers regular users,
// then items with pending claims and comments. Every account uses
// DefaultPassword.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.NumUsers < 2 {
		return nil, fmt.Errorf("at least 2 users are required, got %d", opts.NumUsers)
	}

	f := NewFactory(opts.Seed)
	hash, err := hashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var users []*models.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleModerator} {
			if err := tx.Users.Create(ctx, f.BuildUser(role, hash)); err != nil {
				return err
			}
			res.Users++
		}
		for i := 0; i < opts.NumUsers; i++ {
			u := f.BuildUser(models.RoleUser, hash)
			if err := tx.Users.Create(ctx, u); err != nil {
				return err
			}
			users = append(users, u)
			res.Users++
		}

		for i := 0; i < opts.NumItems; i++ {
			poster := users[f.Intn(len(users))]
			item := f.BuildItem(poster)
			if err := tx.Items.Create(ctx, item); err != nil {
				return err
			}
			res.Items++

			claimants := pickOthers(f, users, poster.ID, opts.ClaimsPerItem)
			for _, claimant := range claimants {
				if err := tx.Claims.Create(ctx, f.BuildClaim(item, claimant)); err != nil {
					return err
				}
				res.Claims++

				if err := tx.Comments.Create(ctx, f.BuildComment(item, claimant)); err != nil {
					return err
				}
				res.Comments++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("seed complete",
		slog.Int("users", res.Users),
		slog.Int("items", res.Items),
		slog.Int("claims", res.Claims),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

// pickOthers returns up to n distinct users other than excludeID.
func pickOthers(f *Factory, users []*models.User, excludeID uint, n int) []*models.User {
	pool := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID != excludeID {
			pool = append(pool, u)
		}
	}
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + f.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
