// Package service provides the claim resolution and moderation business logic.
package service

import (
	"errors"
	"strings"
	"time"

	"lostfound/internal/authz"
	"lostfound/internal/models"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func requireActor(actor *authz.Actor) error {
	if actor == nil || actor.UserID == 0 {
		return models.NewAuthenticationError("Authentication required")
	}
	return nil
}

func requireStaff(actor *authz.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return models.NewForbiddenError("Admin or moderator access required")
	}
	return nil
}

// outcomeLabel turns an error into a low-cardinality metric label.
func outcomeLabel(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "internal_error"
}
