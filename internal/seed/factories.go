// Package seed provides helpers to create demo data for development and
// testing. It is never run against production databases.
package seed

import (
	"fmt"
	"strings"

	"lostfound/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the password every generated account is created with.
const DefaultPassword = "Password123!"

var (
	itemNouns = []string{
		"wallet", "backpack", "umbrella", "phone", "keys", "scarf", "water bottle",
		"laptop charger", "headphones", "sunglasses", "library card", "jacket",
		"notebook", "bike lock", "earbuds case", "beanie", "lunch box", "watch",
	}
	places = []string{
		"main library", "bus stop 14", "north parking lot", "cafeteria", "gym locker room",
		"lecture hall B", "train platform 2", "park bench by the fountain", "front desk",
	}
)

// Factory builds domain entities populated with fake but plausible data.
// Entities are returned unsaved.
type Factory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewFactory returns a Factory. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

func (f *Factory) next() int {
	f.seq++
	return f.seq
}

// BuildUser returns an active account with the given role. passwordHash is
// stored as-is.
func (f *Factory) BuildUser(role models.Role, passwordHash string) *models.User {
	n := f.next()
	first := strings.ToLower(f.faker.FirstName())
	username := fmt.Sprintf("%s%d", sanitize(first), n)
	return &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, "example.com"),
		Password: passwordHash,
		Role:     role,
		IsActive: true,
	}
}

// BuildItem returns an open LOST or FOUND item posted by poster.
func (f *Factory) BuildItem(poster *models.User) *models.Item {
	itemType := models.ItemTypeLost
	if f.faker.Bool() {
		itemType = models.ItemTypeFound
	}
	noun := f.faker.RandomString(itemNouns)
	place := f.faker.RandomString(places)

	verb := "Lost"
	if itemType == models.ItemTypeFound {
		verb = "Found"
	}
	return &models.Item{
		ItemType:        itemType,
		Status:          models.InitialStatus(itemType),
		ModerationState: models.ModerationStateNone,
		Title:           fmt.Sprintf("%s %s %s", verb, f.faker.Color(), noun),
		Description:     f.faker.Sentence(12),
		Location:        place,
		PostedByID:      poster.ID,
	}
}

// BuildClaim returns a PENDING claim by claimant on item. OWN_IT is used
// for FOUND reports and FOUND_IT for LOST reports, which is how claims
// usually arrive.
func (f *Factory) BuildClaim(item *models.Item, claimant *models.User) *models.Claim {
	claimType := models.ClaimTypeOwnIt
	if item.ItemType == models.ItemTypeLost {
		claimType = models.ClaimTypeFoundIt
	}
	return &models.Claim{
		ClaimType: claimType,
		Status:    models.ClaimStatusPending,
		Message:   f.faker.Sentence(10),
		ItemID:    item.ID,
		UserID:    claimant.ID,
	}
}

// BuildComment returns a comment by author on item.
func (f *Factory) BuildComment(item *models.Item, author *models.User) *models.Comment {
	c := &models.Comment{
		ItemID:  item.ID,
		UserID:  author.ID,
		Content: f.faker.Sentence(8),
	}
	if f.faker.Number(1, 5) == 1 {
		c.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/640/480", f.faker.UUID())
	}
	return c
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() < 3 {
		return "user"
	}
	return b.String()
}
