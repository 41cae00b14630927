package server

import (
	"lostfound/internal/authz"
	"lostfound/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ActorRequired loads the authenticated user and stores it as an
// *authz.Actor in c.Locals("actor"). Role and account state come from the
// user store, never from the token. Must be placed after AuthRequired.
func (s *Server) ActorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthenticationError("Authorization required"))
		}

		user, err := s.store.Users.GetByIDCached(c.UserContext(), userID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewAuthenticationError("Account no longer exists"))
			}
			return respondError(c, err)
		}
		if !user.IsActive {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Account is suspended"))
		}
		if user.IsLocked(nowUTC()) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Account is temporarily locked"))
		}

		c.Locals("actor", &authz.Actor{UserID: user.ID, Role: user.Role})
		return c.Next()
	}
}

// StaffRequired returns middleware that rejects non-staff actors with 403.
// Must be placed after ActorRequired.
func (s *Server) StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !actorFrom(c).IsStaff() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin or moderator access required"))
		}
		return c.Next()
	}
}
