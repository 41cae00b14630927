package service

import (
	"context"

	"lostfound/internal/authz"
	"lostfound/internal/cache"
	"lostfound/internal/models"
	"lostfound/internal/repository"
)

// ItemService serves item reads and the poster's own resolution.
type ItemService struct {
	store *repository.Store
	now   Clock
}

// NewItemService returns a new ItemService.
func NewItemService(store *repository.Store) *ItemService {
	return &ItemService{store: store, now: utcNow}
}

// GetItem returns an item through the read cache. The result may lag a
// committed write by up to cache.ItemTTL if invalidation failed, so it is
// never used to decide a state change.
func (s *ItemService) GetItem(ctx context.Context, itemID uint) (*models.Item, error) {
	var item models.Item
	err := cache.Aside(ctx, "item", cache.ItemKey(itemID), &item, cache.ItemTTL, func() error {
		fetched, err := s.store.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		item = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ResolveOwnItem lets the poster mark an open item RESOLVED without a claim.
func (s *ItemService) ResolveOwnItem(ctx context.Context, actor *authz.Actor, itemID uint) (*models.Item, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var result *models.Item
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, err := tx.Items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if err := authz.Check(actor, authz.Resource{Item: item}, authz.ActionResolveOwnItem); err != nil {
			return err
		}

		switch {
		case item.Status == models.ItemStatusDeleted:
			return models.NewCodedValidationError(models.CodeItemDeleted, "Item has been deleted")
		case item.Status == models.ItemStatusResolved:
			return models.NewItemAlreadyResolvedError()
		case !item.Status.IsOpen():
			return models.NewItemAlreadyClaimedError()
		}

		ok, err := tx.Items.UpdateIf(ctx, item.ID,
			repository.ItemCondition{Statuses: []models.ItemStatus{models.ItemStatusLost, models.ItemStatusFound}},
			map[string]any{
				"status":      models.ItemStatusResolved,
				"resolved_at": s.now(),
			})
		if err != nil {
			return err
		}
		if !ok {
			return models.NewItemAlreadyResolvedError()
		}

		result, err = tx.Items.GetByID(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateItem(ctx, itemID)
	return result, nil
}
