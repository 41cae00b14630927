package repository

import (
	"context"
	"time"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

// ItemCondition is the compare-and-set predicate for a conditional item update.
// Empty fields are not checked.
type ItemCondition struct {
	Statuses        []models.ItemStatus
	ModerationState models.ModerationState
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	ApplyClaimApproval(ctx context.Context, itemID, claimantID uint, status models.ItemStatus, at time.Time) (bool, error)
	UpdateIf(ctx context.Context, itemID uint, cond ItemCondition, updates map[string]any) (bool, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository returns a new ItemRepository implementation.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, mapLookupError(err, "Item", id)
	}
	return &item, nil
}

func (r *itemRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := forUpdate(r.db.WithContext(ctx)).First(&item, id).Error; err != nil {
		return nil, mapLookupError(err, "Item", id)
	}
	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ApplyClaimApproval advances the item for an approved claim and stamps
// resolved_at for either claim type. It only writes when the item is
// unclaimed (or already held by the claimant) and is neither RESOLVED nor
// DELETED, and reports whether a row changed.
func (r *itemRepository) ApplyClaimApproval(ctx context.Context, itemID, claimantID uint, status models.ItemStatus, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":           status,
		"claimed_by_id":    claimantID,
		"moderation_state": models.ModerationStateNone,
		"resolved_at":      at,
	}

	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND (claimed_by_id IS NULL OR claimed_by_id = ?) AND status NOT IN ?",
			itemID, claimantID, []models.ItemStatus{models.ItemStatusResolved, models.ItemStatusDeleted}).
		Updates(updates)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// UpdateIf applies updates only while the item still matches cond.
func (r *itemRepository) UpdateIf(ctx context.Context, itemID uint, cond ItemCondition, updates map[string]any) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID)
	if len(cond.Statuses) > 0 {
		q = q.Where("status IN ?", cond.Statuses)
	}
	if cond.ModerationState != "" {
		q = q.Where("moderation_state = ?", cond.ModerationState)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
