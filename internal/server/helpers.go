package server

import (
	"errors"
	"strings"

	"nutrilog/internal/auth"
	"nutrilog/internal/middleware"
	"nutrilog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	localAccount = "account"
	localClaims  = "claims"
	localUserID  = "userID"
)

// respondError maps err to its status and writes the standard body. Internal causes are logged,
// never returned.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
		)
	}
	return models.RespondWithError(c, status, err)
}

// parseID extracts a route parameter as a positive uint.
// On failure it writes a 422 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = s.respondError(c, models.NewFieldValidationError([]models.FieldError{{
			Field:   param,
			Message: "must be a positive integer",
		}}))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the request body into out, writing a 422 on malformed input.
func (s *Server) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		_ = s.respondError(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// currentAccount returns the account loaded by AuthRequired for this request.
func currentAccount(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals(localAccount).(*models.Account)
	return account
}

func currentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	return claims
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The scheme is
// case-insensitive.
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
