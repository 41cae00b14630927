// Package authz is the capability table consulted before every mutating
// operation. It performs no I/O: callers load the records involved and pass
// them in together with the acting user.
package authz

import "lostfound/internal/models"

// Actor is the verified identity performing a request.
type Actor struct {
	UserID uint
	Role   models.Role
}

// IsStaff reports whether the actor is an admin or moderator.
func (a *Actor) IsStaff() bool {
	return a != nil && a.Role.IsStaff()
}

// Action is an operation gated by the capability table.
type Action string

const (
	ActionCreateClaim    Action = "create_claim"
	ActionResolveClaim   Action = "resolve_claim"
	ActionViewClaim      Action = "view_claim"
	ActionViewItemClaims Action = "view_item_claims"
	ActionResolveOwnItem Action = "resolve_own_item"
	ActionModerateItem   Action = "moderate_item"
	ActionModerateUser   Action = "moderate_user"
	ActionViewAudit      Action = "view_audit"
)

// Resource carries the records an action is evaluated against. Only the
// fields relevant to the action need to be set.
type Resource struct {
	Item    *models.Item
	Claim   *models.Claim
	User    *models.User
	NewRole models.Role
}

// Capability reports whether actor may perform action on res.
func Capability(actor *Actor, res Resource, action Action) bool {
	return Check(actor, res, action) == nil
}

// Check is Capability with the reason: it returns nil when allowed and an
// *models.AppError describing the denial otherwise.
func Check(actor *Actor, res Resource, action Action) error {
	if actor == nil || actor.UserID == 0 {
		return models.NewAuthenticationError("Authentication required")
	}

	switch action {
	case ActionCreateClaim:
		return checkCreateClaim(actor, res.Item)
	case ActionResolveClaim:
		if res.Item == nil {
			return models.NewForbiddenError("Claim item is required")
		}
		if actor.UserID == res.Item.PostedByID || actor.IsStaff() {
			return nil
		}
		return models.NewForbiddenError("Only the item poster or staff can resolve claims")
	case ActionViewClaim:
		if res.Item == nil || res.Claim == nil {
			return models.NewForbiddenError("Claim and item are required")
		}
		if actor.UserID == res.Claim.UserID || actor.UserID == res.Item.PostedByID || actor.IsStaff() {
			return nil
		}
		return models.NewForbiddenError("You cannot view this claim")
	case ActionViewItemClaims:
		if res.Item == nil {
			return models.NewForbiddenError("Item is required")
		}
		if actor.UserID == res.Item.PostedByID || actor.IsStaff() {
			return nil
		}
		return models.NewForbiddenError("Only the item poster or staff can list its claims")
	case ActionResolveOwnItem:
		if res.Item == nil || actor.UserID != res.Item.PostedByID {
			return models.NewForbiddenError("Only the item poster can resolve it")
		}
		return nil
	case ActionModerateItem, ActionViewAudit:
		if !actor.IsStaff() {
			return models.NewForbiddenError("Admin or moderator access required")
		}
		return nil
	case ActionModerateUser:
		return checkModerateUser(actor, res.User, res.NewRole)
	}

	return models.NewForbiddenError("Unknown action")
}

func checkCreateClaim(actor *Actor, item *models.Item) error {
	if item == nil {
		return models.NewForbiddenError("Item is required")
	}
	if item.PostedByID == actor.UserID {
		return models.NewCodedValidationError(models.CodeSelfClaim, "You cannot claim an item you posted")
	}
	if item.Status == models.ItemStatusDeleted {
		return models.NewCodedValidationError(models.CodeItemDeleted, "Item has been deleted")
	}
	return nil
}

// checkModerateUser enforces the staff-only user moderation rules. Assigning
// ADMIN or touching an existing ADMIN requires the actor to be ADMIN itself,
// and nobody may moderate their own account.
func checkModerateUser(actor *Actor, target *models.User, newRole models.Role) error {
	if !actor.IsStaff() {
		return models.NewForbiddenError("Admin or moderator access required")
	}
	if target == nil {
		return models.NewForbiddenError("Target user is required")
	}
	if target.ID == actor.UserID {
		return models.NewCodedValidationError(models.CodeSelfModification, "You cannot modify your own account")
	}
	if target.Role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return models.NewForbiddenError("Only admins can modify an admin account")
	}
	if newRole == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return models.NewForbiddenError("Only admins can assign the ADMIN role")
	}
	return nil
}
