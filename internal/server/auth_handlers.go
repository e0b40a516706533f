package server

import (
	"nutrilog/internal/middleware"
	"nutrilog/internal/models"
	"nutrilog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// profileRequest holds the optional profile fields shared by register and profile update.
// A field sent as null is treated as not provided.
type profileRequest struct {
	Name          *string          `json:"name"`
	Age           *int             `json:"age"`
	Gender        *string          `json:"gender"`
	HeightCm      *decimal.Decimal `json:"height_cm" swaggertype:"number"`
	WeightKg      *decimal.Decimal `json:"weight_kg" swaggertype:"number"`
	ActivityLevel *string          `json:"activity_level"`
}

func (r profileRequest) input() service.ProfileInput {
	return service.ProfileInput{
		Name:          r.Name,
		Age:           r.Age,
		Gender:        r.Gender,
		HeightCm:      r.HeightCm,
		WeightKg:      r.WeightKg,
		ActivityLevel: r.ActivityLevel,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	profileRequest
}

// loginRequest accepts the OAuth2 password form (username=email) or the equivalent JSON.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Description Create an account with optional profile fields. The password hash is never returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration request"
// @Success 201 {object} models.Account
// @Failure 400 {object} models.ErrorResponse "Email already registered"
// @Failure 422 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	account, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.input(),
	})
	if err != nil {
		return s.respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "account registered", "account_id", account.ID)
	return c.Status(fiber.StatusCreated).JSON(account)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Exchange email and password for a bearer token. Accepts form or JSON.
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Email address"
// @Param password formData string true "Password"
// @Success 200 {object} service.TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	email := req.Username
	if email == "" {
		email = req.Email
	}
	if email == "" || req.Password == "" {
		return s.respondError(c, models.NewUnauthenticatedError())
	}

	resp, err := s.authService.Login(c.UserContext(), email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(resp)
}

// Me handles GET /api/auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(currentAccount(c))
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Revoke the presented token until it expires.
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse "Revocation store unavailable"
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), currentClaims(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AuthRequired returns the authentication middleware. Every failure produces the same 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return s.respondError(c, models.NewUnauthenticatedError())
		}

		account, claims, err := s.authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return s.respondError(c, err)
		}

		c.Locals(localAccount, account)
		c.Locals(localClaims, claims)
		c.Locals(localUserID, account.ID)
		c.SetUserContext(middleware.WithAccountID(c.UserContext(), account.ID))

		return c.Next()
	}
}
