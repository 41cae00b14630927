package server

import (
	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ModerateItemRequest is the body of PUT /api/admin/items/:id.
type ModerateItemRequest struct {
	Action string `json:"action" example:"flag_spam" enums:"force_delete,flag_spam,unflag_spam"`
}

// ModerateUserRequest is the body of PUT /api/admin/users/:id.
type ModerateUserRequest struct {
	Action  string `json:"action" example:"change_role" enums:"suspend,activate,change_role"`
	NewRole string `json:"newRole,omitempty" example:"MODERATOR"`
}

// ModerateItem handles PUT /api/admin/items/:id
// @Summary Moderate an item
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body ModerateItemRequest true "Action"
// @Success 200 {object} models.Item
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/items/{id} [put]
func (s *Server) ModerateItem(c *fiber.Ctx) error {
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ModerateItemRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	action, err := service.ParseItemAction(req.Action)
	if err != nil {
		return respondError(c, err)
	}

	item, err := s.moderationService.ModerateItem(c.UserContext(), actorFrom(c), itemID, action)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// ModerateUser handles PUT /api/admin/users/:id
// @Summary Moderate a user account
// @Description Moderators cannot touch ADMIN accounts or grant ADMIN. Nobody can moderate themselves.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body ModerateUserRequest true "Action"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (s *Server) ModerateUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ModerateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	action, err := service.ParseUserAction(req.Action, req.NewRole)
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.moderationService.ModerateUser(c.UserContext(), actorFrom(c), userID, action)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// ListAudit handles GET /api/admin/audit
// @Summary List moderation audit entries
// @Tags admin
// @Produce json
// @Param target_type query string false "item or user"
// @Param target_id query int false "Target ID"
// @Param actor_id query int false "Actor user ID"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.ModerationAudit
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/audit [get]
func (s *Server) ListAudit(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	filter := repository.AuditFilter{
		TargetType: models.AuditTargetType(c.Query("target_type")),
		TargetID:   uint(max(c.QueryInt("target_id", 0), 0)),
		ActorID:    uint(max(c.QueryInt("actor_id", 0), 0)),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	switch filter.TargetType {
	case "", models.AuditTargetItem, models.AuditTargetUser:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("target_type must be item or user"))
	}

	entries, err := s.moderationService.ListAudit(c.UserContext(), actorFrom(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
