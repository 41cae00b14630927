package service

import (
	"context"
	"log/slog"

	"lostfound/internal/authz"
	"lostfound/internal/cache"
	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/observability"
	"lostfound/internal/repository"
	"lostfound/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// ClaimService creates, resolves and lists claims.
type ClaimService struct {
	store *repository.Store
	now   Clock
}

// CreateClaimInput is the input for submitting a claim.
type CreateClaimInput struct {
	ItemID    uint
	ClaimType models.ClaimType
	Message   string
}

// NewClaimService returns a new ClaimService.
func NewClaimService(store *repository.Store) *ClaimService {
	return &ClaimService{store: store, now: utcNow}
}

// CreateClaim files a PENDING claim by actor on an item. The poster cannot
// claim their own item, deleted items cannot be claimed, and a user holds at
// most one PENDING claim per item.
func (s *ClaimService) CreateClaim(ctx context.Context, actor *authz.Actor, in CreateClaimInput) (*models.Claim, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.ClaimType != models.ClaimTypeFoundIt && in.ClaimType != models.ClaimTypeOwnIt {
		return nil, models.NewValidationError("claimType must be FOUND_IT or OWN_IT")
	}
	msg, err := validation.NormalizeClaimMessage(in.Message)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	item, err := s.store.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.Resource{Item: item}, authz.ActionCreateClaim); err != nil {
		return nil, err
	}

	pending, err := s.store.Claims.HasPending(ctx, item.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, models.NewCodedValidationError(models.CodeDuplicatePendingClaim,
			"You already have a pending claim on this item")
	}

	// The partial unique index still catches a concurrent duplicate that
	// slipped past the check above.
	claim := &models.Claim{
		ClaimType: in.ClaimType,
		Status:    models.ClaimStatusPending,
		Message:   msg,
		ItemID:    item.ID,
		UserID:    actor.UserID,
	}
	if err := s.store.Claims.Create(ctx, claim); err != nil {
		return nil, err
	}

	observability.ClaimsCreated.WithLabelValues(string(claim.ClaimType)).Inc()
	return claim, nil
}

// ResolveClaim approves or rejects a PENDING claim. Approval advances the
// item inside one transaction so that, of any number of concurrent
// approvals for an item, exactly one commits.
func (s *ClaimService) ResolveClaim(ctx context.Context, actor *authz.Actor, claimID uint, status models.ClaimStatus) (claim *models.Claim, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "ClaimService", "ResolveClaim",
		attribute.Int64("claim.id", int64(claimID)),
		attribute.String("claim.resolution", string(status)),
	)
	defer func() {
		span.SetError(err)
		span.End()
		if err != nil {
			observability.ClaimResolutions.WithLabelValues(outcomeLabel(err)).Inc()
		} else {
			observability.ClaimResolutions.WithLabelValues(string(claim.Status)).Inc()
		}
	}()

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if status != models.ClaimStatusApproved && status != models.ClaimStatusRejected {
		return nil, models.NewValidationError("status must be APPROVED or REJECTED")
	}

	current, err := s.store.Claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !current.IsPending() {
		return nil, models.NewAlreadyResolvedError()
	}
	item := current.Item
	if item == nil {
		if item, err = s.store.Items.GetByID(ctx, current.ItemID); err != nil {
			return nil, err
		}
	}
	if err := authz.Check(actor, authz.Resource{Item: item, Claim: current}, authz.ActionResolveClaim); err != nil {
		return nil, err
	}

	if status == models.ClaimStatusRejected {
		return s.reject(ctx, actor, current.ID)
	}
	return s.approve(ctx, actor, current.ID)
}

func (s *ClaimService) reject(ctx context.Context, actor *authz.Actor, claimID uint) (*models.Claim, error) {
	ok, err := s.store.Claims.Resolve(ctx, claimID, models.ClaimStatusRejected, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewAlreadyResolvedError()
	}
	return s.store.Claims.GetByID(ctx, claimID)
}

func (s *ClaimService) approve(ctx context.Context, actor *authz.Actor, claimID uint) (*models.Claim, error) {
	defer observability.TrackTransaction("approve_claim")()

	var result *models.Claim
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		claim, err := tx.Claims.GetByIDForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		item, err := tx.Items.GetByIDForUpdate(ctx, claim.ItemID)
		if err != nil {
			return err
		}

		// RESOLVED wins over a foreign claimant: an OWN_IT winner leaves the
		// item both resolved and claimed.
		switch {
		case item.Status == models.ItemStatusResolved:
			return models.NewItemAlreadyResolvedError()
		case item.Status == models.ItemStatusDeleted:
			return models.NewCodedValidationError(models.CodeItemDeleted, "Item has been deleted")
		case !item.CanBeClaimedBy(claim.UserID):
			return models.NewItemAlreadyClaimedError()
		case !claim.IsPending():
			return models.NewAlreadyResolvedError()
		}

		now := s.now()
		ok, err := tx.Items.ApplyClaimApproval(ctx, item.ID, claim.UserID, claim.ClaimType.ResultingItemStatus(), now)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewItemAlreadyClaimedError()
		}

		ok, err = tx.Claims.Resolve(ctx, claim.ID, models.ClaimStatusApproved, actor.UserID, now)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewAlreadyResolvedError()
		}

		result, err = tx.Claims.GetByID(ctx, claim.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateItem(ctx, result.ItemID)
	middleware.Logger.InfoContext(ctx, "claim approved",
		slog.Uint64("claim_id", uint64(result.ID)),
		slog.Uint64("item_id", uint64(result.ItemID)),
		slog.String("item_status", string(result.Item.Status)),
	)
	return result, nil
}

// GetClaim returns a claim with its item to the claimant, the item poster or staff.
func (s *ClaimService) GetClaim(ctx context.Context, actor *authz.Actor, claimID uint) (*models.Claim, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	claim, err := s.store.Claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.Resource{Item: claim.Item, Claim: claim}, authz.ActionViewClaim); err != nil {
		return nil, err
	}
	return claim, nil
}

// ListItemClaims returns every claim on an item, oldest first.
func (s *ClaimService) ListItemClaims(ctx context.Context, actor *authz.Actor, itemID uint) ([]models.Claim, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	item, err := s.store.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.Resource{Item: item}, authz.ActionViewItemClaims); err != nil {
		return nil, err
	}
	return s.store.Claims.ListByItem(ctx, itemID)
}
