package service

import (
	"strings"

	"lostfound/internal/models"
)

// ItemAction is a moderation action on an item: ForceDelete, FlagSpam or UnflagSpam.
type ItemAction interface {
	Name() string
	itemAction()
}

// ForceDelete moves an item to DELETED from any state and redacts its comments.
type ForceDelete struct{}

// FlagSpam hides an open or claimed item as RESOLVED with a spam marker.
type FlagSpam struct{}

// UnflagSpam returns a spam-flagged item to LOST.
type UnflagSpam struct{}

func (ForceDelete) Name() string { return "force_delete" }
func (FlagSpam) Name() string    { return "flag_spam" }
func (UnflagSpam) Name() string  { return "unflag_spam" }

func (ForceDelete) itemAction() {}
func (FlagSpam) itemAction()    {}
func (UnflagSpam) itemAction()  {}

// ParseItemAction maps a request action name to its variant.
func ParseItemAction(raw string) (ItemAction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "force_delete":
		return ForceDelete{}, nil
	case "flag_spam":
		return FlagSpam{}, nil
	case "unflag_spam":
		return UnflagSpam{}, nil
	}
	return nil, models.NewCodedValidationError(models.CodeInvalidAction,
		"action must be one of force_delete, flag_spam, unflag_spam")
}

// UserAction is a moderation action on an account: Suspend, Activate or ChangeRole.
type UserAction interface {
	Name() string
	userAction()
}

// Suspend deactivates an account.
type Suspend struct{}

// Activate reactivates an account and clears any login lockout.
type Activate struct{}

// ChangeRole assigns NewRole.
type ChangeRole struct {
	NewRole models.Role
}

func (Suspend) Name() string    { return "suspend" }
func (Activate) Name() string   { return "activate" }
func (ChangeRole) Name() string { return "change_role" }

func (Suspend) userAction()    {}
func (Activate) userAction()   {}
func (ChangeRole) userAction() {}

// ParseUserAction maps a request action name (and newRole for change_role)
// to its variant.
func ParseUserAction(raw, newRole string) (UserAction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "suspend":
		return Suspend{}, nil
	case "activate":
		return Activate{}, nil
	case "change_role":
		role, err := models.ParseRole(newRole)
		if err != nil {
			return nil, err
		}
		return ChangeRole{NewRole: role}, nil
	}
	return nil, models.NewCodedValidationError(models.CodeInvalidAction,
		"action must be one of suspend, activate, change_role")
}
