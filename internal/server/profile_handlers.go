package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile
// @Summary Get profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	return c.JSON(currentAccount(c))
}

// UpdateProfile handles PUT /api/profile
// @Summary Update profile
// @Description Only the fields present in the body change.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body profileRequest true "Profile fields"
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	account, err := s.accountService.UpdateProfile(c.UserContext(), currentAccount(c).ID, req.input())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(account)
}
