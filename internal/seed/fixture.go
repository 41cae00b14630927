package seed

import (
	"context"
	"fmt"
	"os"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/validation"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set, usually loaded from YAML, describing
// a reproducible scenario such as competing claims on one item.
type Fixture struct {
	Users    []FixtureUser    `yaml:"users"`
	Items    []FixtureItem    `yaml:"items"`
	Claims   []FixtureClaim   `yaml:"claims"`
	Comments []FixtureComment `yaml:"comments"`
}

// FixtureUser is an account. Password defaults to DefaultPassword.
type FixtureUser struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	Password  string `yaml:"password"`
	Suspended bool   `yaml:"suspended"`
}

// FixtureItem is an item referenced by Key from claims and comments.
type FixtureItem struct {
	Key         string `yaml:"key"`
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`
	PostedBy    string `yaml:"posted_by"`
}

// FixtureClaim is a pending claim on a fixture item.
type FixtureClaim struct {
	Item     string `yaml:"item"`
	Claimant string `yaml:"claimant"`
	Type     string `yaml:"type"`
	Message  string `yaml:"message"`
}

// FixtureComment is a comment on a fixture item.
type FixtureComment struct {
	Item    string `yaml:"item"`
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture parses YAML fixture data.
func ParseFixture(raw []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fx, nil
}

// ApplyFixture inserts fx in one transaction. Claims go through the same
// repository as the API, so a fixture cannot create a duplicate pending
// claim or a claim by the item's poster.
func (s *Seeder) ApplyFixture(ctx context.Context, fx *Fixture) (*Result, error) {
	res := &Result{}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		users := make(map[string]*models.User, len(fx.Users))
		for _, fu := range fx.Users {
			u, err := buildFixtureUser(fu)
			if err != nil {
				return err
			}
			if err := tx.Users.Create(ctx, u); err != nil {
				return err
			}
			// is_active has a column default, so a false value is not inserted.
			if fu.Suspended {
				if err := tx.Users.Update(ctx, u.ID, map[string]any{"is_active": false}); err != nil {
					return err
				}
				u.IsActive = false
			}
			users[u.Username] = u
			res.Users++
		}

		lookup := func(username string) (*models.User, error) {
			u, ok := users[username]
			if !ok {
				return nil, fmt.Errorf("fixture references unknown user %q", username)
			}
			return u, nil
		}

		items := make(map[string]*models.Item, len(fx.Items))
		for _, fi := range fx.Items {
			poster, err := lookup(fi.PostedBy)
			if err != nil {
				return err
			}
			itemType := models.ItemType(fi.Type)
			if itemType != models.ItemTypeLost && itemType != models.ItemTypeFound {
				return fmt.Errorf("item %q: type must be LOST or FOUND", fi.Key)
			}
			if err := validation.ValidateItemTitle(fi.Title); err != nil {
				return fmt.Errorf("item %q: %w", fi.Key, err)
			}
			item := &models.Item{
				ItemType:        itemType,
				Status:          models.InitialStatus(itemType),
				ModerationState: models.ModerationStateNone,
				Title:           fi.Title,
				Description:     fi.Description,
				Location:        fi.Location,
				PostedByID:      poster.ID,
			}
			if err := tx.Items.Create(ctx, item); err != nil {
				return err
			}
			items[fi.Key] = item
			res.Items++
		}

		for _, fc := range fx.Claims {
			item, ok := items[fc.Item]
			if !ok {
				return fmt.Errorf("claim references unknown item %q", fc.Item)
			}
			claimant, err := lookup(fc.Claimant)
			if err != nil {
				return err
			}
			if claimant.ID == item.PostedByID {
				return fmt.Errorf("claim on %q: %s cannot claim their own item", fc.Item, fc.Claimant)
			}
			claimType, err := models.ParseClaimType(fc.Type)
			if err != nil {
				return fmt.Errorf("claim on %q: %w", fc.Item, err)
			}
			msg, err := validation.NormalizeClaimMessage(fc.Message)
			if err != nil {
				return fmt.Errorf("claim on %q: %w", fc.Item, err)
			}
			if err := tx.Claims.Create(ctx, &models.Claim{
				ClaimType: claimType,
				Status:    models.ClaimStatusPending,
				Message:   msg,
				ItemID:    item.ID,
				UserID:    claimant.ID,
			}); err != nil {
				return err
			}
			res.Claims++
		}

		for _, fc := range fx.Comments {
			item, ok := items[fc.Item]
			if !ok {
				return fmt.Errorf("comment references unknown item %q", fc.Item)
			}
			author, err := lookup(fc.Author)
			if err != nil {
				return err
			}
			if err := tx.Comments.Create(ctx, &models.Comment{ItemID: item.ID, UserID: author.ID, Content: fc.Content}); err != nil {
				return err
			}
			res.Comments++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func buildFixtureUser(fu FixtureUser) (*models.User, error) {
	if err := validation.ValidateUsername(fu.Username); err != nil {
		return nil, fmt.Errorf("user %q: %w", fu.Username, err)
	}
	email := fu.Email
	if email == "" {
		email = fu.Username + "@example.com"
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("user %q: %w", fu.Username, err)
	}

	role := models.RoleUser
	if fu.Role != "" {
		r, err := models.ParseRole(fu.Role)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", fu.Username, err)
		}
		role = r
	}

	password := fu.Password
	if password == "" {
		password = DefaultPassword
	} else if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("user %q: %w", fu.Username, err)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username: fu.Username,
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: !fu.Suspended,
	}, nil
}
