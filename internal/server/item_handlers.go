package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetItem handles GET /api/items/:id
// @Summary Get an item
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.Item
// @Failure 404 {object} models.ErrorResponse
// @Router /items/{id} [get]
func (s *Server) GetItem(c *fiber.Ctx) error {
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	item, err := s.itemService.GetItem(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// ListItemClaims handles GET /api/items/:id/claims
// @Summary List claims on an item
// @Description Oldest first. Visible to the item poster and staff.
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {array} models.Claim
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /items/{id}/claims [get]
func (s *Server) ListItemClaims(c *fiber.Ctx) error {
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	claims, err := s.claimService.ListItemClaims(c.UserContext(), actorFrom(c), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(claims)
}

// ResolveOwnItem handles POST /api/items/:id/resolve
// @Summary Mark your own item resolved
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.Item
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /items/{id}/resolve [post]
func (s *Server) ResolveOwnItem(c *fiber.Ctx) error {
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	item, err := s.itemService.ResolveOwnItem(c.UserContext(), actorFrom(c), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}
