package server

import (
	"lostfound/internal/models"
	"lostfound/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateClaimRequest is the body of POST /api/claims.
type CreateClaimRequest struct {
	ClaimType string `json:"claimType" example:"OWN_IT"`
	ItemID    uint   `json:"itemId" example:"42"`
	Message   string `json:"message,omitempty" example:"It has my initials on the strap"`
}

// ResolveClaimRequest is the body of PUT /api/claims/:id.
type ResolveClaimRequest struct {
	Status string `json:"status" example:"APPROVED"`
}

// CreateClaim handles POST /api/claims
// @Summary File a claim
// @Description Claim an item as its owner (OWN_IT) or as the person who found it (FOUND_IT).
// @Tags claims
// @Accept json
// @Produce json
// @Param request body CreateClaimRequest true "Claim"
// @Success 201 {object} models.Claim
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /claims [post]
func (s *Server) CreateClaim(c *fiber.Ctx) error {
	var req CreateClaimRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.ItemID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("itemId is required"))
	}
	claimType, err := models.ParseClaimType(req.ClaimType)
	if err != nil {
		return respondError(c, err)
	}

	claim, err := s.claimService.CreateClaim(c.UserContext(), actorFrom(c), service.CreateClaimInput{
		ItemID:    req.ItemID,
		ClaimType: claimType,
		Message:   req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(claim)
}

// ResolveClaim handles PUT /api/claims/:id
// @Summary Resolve a claim
// @Description Approve or reject a pending claim. Only the item poster or staff may resolve.
// @Tags claims
// @Accept json
// @Produce json
// @Param id path int true "Claim ID"
// @Param request body ResolveClaimRequest true "Resolution"
// @Success 200 {object} models.Claim
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /claims/{id} [put]
func (s *Server) ResolveClaim(c *fiber.Ctx) error {
	claimID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ResolveClaimRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	status, err := models.ParseResolution(req.Status)
	if err != nil {
		return respondError(c, err)
	}

	claim, err := s.claimService.ResolveClaim(c.UserContext(), actorFrom(c), claimID, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(claim)
}

// GetClaim handles GET /api/claims/:id
// @Summary Get a claim
// @Tags claims
// @Produce json
// @Param id path int true "Claim ID"
// @Success 200 {object} models.Claim
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /claims/{id} [get]
func (s *Server) GetClaim(c *fiber.Ctx) error {
	claimID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	claim, err := s.claimService.GetClaim(c.UserContext(), actorFrom(c), claimID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(claim)
}
