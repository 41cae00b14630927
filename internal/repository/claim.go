package repository

import (
	"context"
	"time"

	"lostfound/internal/database"
	"lostfound/internal/models"

	"gorm.io/gorm"
)

// ClaimRepository defines persistence operations for claims.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id uint) (*models.Claim, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Claim, error)
	ListByItem(ctx context.Context, itemID uint) ([]models.Claim, error)
	HasPending(ctx context.Context, itemID, userID uint) (bool, error)
	Resolve(ctx context.Context, id uint, status models.ClaimStatus, resolverID uint, at time.Time) (bool, error)
}

type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository returns a new ClaimRepository implementation.
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewCodedValidationError(models.CodeDuplicatePendingClaim,
				"You already have a pending claim on this item")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *claimRepository) GetByID(ctx context.Context, id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := r.db.WithContext(ctx).Preload("Item").First(&claim, id).Error; err != nil {
		return nil, mapLookupError(err, "Claim", id)
	}
	return &claim, nil
}

func (r *claimRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := forUpdate(r.db.WithContext(ctx)).First(&claim, id).Error; err != nil {
		return nil, mapLookupError(err, "Claim", id)
	}
	return &claim, nil
}

func (r *claimRepository) ListByItem(ctx context.Context, itemID uint) ([]models.Claim, error) {
	var claims []models.Claim
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at asc").
		Find(&claims).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return claims, nil
}

func (r *claimRepository) HasPending(ctx context.Context, itemID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Claim{}).
		Where("item_id = ? AND user_id = ? AND status = ?", itemID, userID, models.ClaimStatusPending).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Resolve moves a PENDING claim to status. It reports false when the claim
// was no longer PENDING, which callers surface as ALREADY_RESOLVED.
func (r *claimRepository) Resolve(ctx context.Context, id uint, status models.ClaimStatus, resolverID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ? AND status = ?", id, models.ClaimStatusPending).
		Updates(map[string]any{
			"status":         status,
			"resolved_by_id": resolverID,
			"resolved_at":    at,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
