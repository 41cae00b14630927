package service

import (
	"context"
	"fmt"
	"log/slog"

	"lostfound/internal/authz"
	"lostfound/internal/cache"
	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/observability"
	"lostfound/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ModerationService applies staff actions to items and accounts. Every
// successful action writes an audit row in the same transaction.
type ModerationService struct {
	store *repository.Store
	now   Clock
}

// NewModerationService returns a new ModerationService.
func NewModerationService(store *repository.Store) *ModerationService {
	return &ModerationService{store: store, now: utcNow}
}

var openOrClaimed = []models.ItemStatus{
	models.ItemStatusLost,
	models.ItemStatusFound,
	models.ItemStatusClaimed,
}

// ModerateItem applies action to an item and returns the updated item.
func (s *ModerationService) ModerateItem(ctx context.Context, actor *authz.Actor, itemID uint, action ItemAction) (item *models.Item, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "ModerationService", "ModerateItem",
		attribute.Int64("item.id", int64(itemID)),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if err := authz.Check(actor, authz.Resource{}, authz.ActionModerateItem); err != nil {
		return nil, err
	}
	if action == nil {
		return nil, models.NewCodedValidationError(models.CodeInvalidAction, "action is required")
	}
	span.AddAttributes(attribute.String("moderation.action", action.Name()))

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Items.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		cond, updates, err := s.itemTransition(current, action)
		if err != nil {
			return err
		}
		ok, err := tx.Items.UpdateIf(ctx, current.ID, cond, updates)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewCodedValidationError(models.CodeInvalidAction, "Item changed while applying "+action.Name())
		}

		if err := tx.Audits.Create(ctx, &models.ModerationAudit{
			ActorID:    actor.UserID,
			TargetType: models.AuditTargetItem,
			TargetID:   current.ID,
			Action:     action.Name(),
			Detail:     fmt.Sprintf("status %s -> %v", current.Status, updates["status"]),
		}); err != nil {
			return err
		}

		item, err = tx.Items.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.ModerationActions.WithLabelValues(string(models.AuditTargetItem), action.Name()).Inc()
	cache.InvalidateItem(ctx, itemID)

	if _, ok := action.(ForceDelete); ok {
		s.redactComments(ctx, itemID)
	}
	return item, nil
}

// itemTransition validates action against the locked item and returns the
// compare-and-set predicate plus the column updates to apply.
func (s *ModerationService) itemTransition(item *models.Item, action ItemAction) (repository.ItemCondition, map[string]any, error) {
	now := s.now()

	switch action.(type) {
	case ForceDelete:
		if item.Status == models.ItemStatusDeleted {
			return repository.ItemCondition{}, nil, models.NewCodedValidationError(models.CodeAlreadyDeleted, "Item is already deleted")
		}
		return repository.ItemCondition{Statuses: []models.ItemStatus{item.Status}},
			map[string]any{"status": models.ItemStatusDeleted, "resolved_at": now}, nil

	case FlagSpam:
		switch {
		case item.Status == models.ItemStatusDeleted:
			return repository.ItemCondition{}, nil, models.NewCodedValidationError(models.CodeItemDeleted, "Item has been deleted")
		case item.IsSpamFlagged():
			return repository.ItemCondition{}, nil, models.NewCodedValidationError(models.CodeAlreadyFlagged, "Item is already flagged as spam")
		case item.Status == models.ItemStatusResolved:
			return repository.ItemCondition{}, nil, models.NewItemAlreadyResolvedError()
		}
		return repository.ItemCondition{Statuses: openOrClaimed},
			map[string]any{
				"status":           models.ItemStatusResolved,
				"moderation_state": models.ModerationStateSpamFlagged,
				"resolved_at":      now,
			}, nil

	case UnflagSpam:
		if !item.IsSpamFlagged() {
			return repository.ItemCondition{}, nil, models.NewCodedValidationError(models.CodeNotSpamFlagged, "Item is not flagged as spam")
		}
		return repository.ItemCondition{
				Statuses:        []models.ItemStatus{models.ItemStatusResolved},
				ModerationState: models.ModerationStateSpamFlagged,
			},
			// Unflagging reopens the item, so a claimant held from before the
			// flag is dropped along with the resolution.
			map[string]any{
				"status":           models.ItemStatusLost,
				"moderation_state": models.ModerationStateNone,
				"resolved_at":      nil,
				"claimed_by_id":    nil,
			}, nil
	}

	return repository.ItemCondition{}, nil, models.NewCodedValidationError(models.CodeInvalidAction, "Unsupported item action")
}

// redactComments runs after the force-delete commit. A failure leaves the
// item DELETED with readable comments; it is logged and counted for
// follow-up rather than failing the request.
func (s *ModerationService) redactComments(ctx context.Context, itemID uint) {
	n, err := s.store.Comments.RedactByItem(ctx, itemID)
	if err != nil {
		observability.CommentRedactionFailures.Inc()
		middleware.Logger.ErrorContext(ctx, "comment redaction failed after force delete",
			slog.Uint64("item_id", uint64(itemID)),
			slog.String("error", err.Error()),
		)
		return
	}
	middleware.Logger.InfoContext(ctx, "comments redacted",
		slog.Uint64("item_id", uint64(itemID)),
		slog.Int64("count", n),
	)
}

// ModerateUser applies action to another user's account and returns the updated user.
func (s *ModerationService) ModerateUser(ctx context.Context, actor *authz.Actor, userID uint, action UserAction) (user *models.User, err error) {
	span, ctx := observability.StartServiceSpan(ctx, "ModerationService", "ModerateUser",
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if action == nil {
		return nil, models.NewCodedValidationError(models.CodeInvalidAction, "action is required")
	}
	span.AddAttributes(attribute.String("moderation.action", action.Name()))

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		target, err := tx.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		var newRole models.Role
		if cr, ok := action.(ChangeRole); ok {
			newRole = cr.NewRole
		}
		if err := authz.Check(actor, authz.Resource{User: target, NewRole: newRole}, authz.ActionModerateUser); err != nil {
			return err
		}

		updates, detail, err := userTransition(target, action)
		if err != nil {
			return err
		}
		if err := tx.Users.Update(ctx, target.ID, updates); err != nil {
			return err
		}

		if err := tx.Audits.Create(ctx, &models.ModerationAudit{
			ActorID:    actor.UserID,
			TargetType: models.AuditTargetUser,
			TargetID:   target.ID,
			Action:     action.Name(),
			Detail:     detail,
		}); err != nil {
			return err
		}

		user, err = tx.Users.GetByID(ctx, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.ModerationActions.WithLabelValues(string(models.AuditTargetUser), action.Name()).Inc()
	cache.InvalidateUser(ctx, userID)
	return user, nil
}

func userTransition(target *models.User, action UserAction) (map[string]any, string, error) {
	switch a := action.(type) {
	case Suspend:
		if !target.IsActive {
			return nil, "", models.NewCodedValidationError(models.CodeUserAlreadySuspended, "User is already suspended")
		}
		return map[string]any{"is_active": false}, "suspended", nil

	case Activate:
		if target.IsActive {
			return nil, "", models.NewCodedValidationError(models.CodeUserAlreadyActive, "User is already active")
		}
		return map[string]any{
			"is_active":             true,
			"locked_until":          nil,
			"failed_login_attempts": 0,
		}, "activated", nil

	case ChangeRole:
		if !a.NewRole.Valid() {
			return nil, "", models.NewCodedValidationError(models.CodeInvalidRole, "role must be one of USER, MODERATOR, ADMIN")
		}
		if a.NewRole == target.Role {
			return nil, "", models.NewCodedValidationError(models.CodeRoleAlreadyAssigned, "User already has role "+string(a.NewRole))
		}
		return map[string]any{"role": a.NewRole}, fmt.Sprintf("role %s -> %s", target.Role, a.NewRole), nil
	}

	return nil, "", models.NewCodedValidationError(models.CodeInvalidAction, "Unsupported user action")
}

// ListAudit returns the most recent moderation audit entries.
func (s *ModerationService) ListAudit(ctx context.Context, actor *authz.Actor, filter repository.AuditFilter) ([]models.ModerationAudit, error) {
	if err := authz.Check(actor, authz.Resource{}, authz.ActionViewAudit); err != nil {
		return nil, err
	}
	return s.store.Audits.List(ctx, filter)
}
