// Package service holds the application logic between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"time"

	"nutrilog/internal/auth"
	"nutrilog/internal/models"
	"nutrilog/internal/observability"
	"nutrilog/internal/repository"
	"nutrilog/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenRevoker stores revoked token IDs until the tokens expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenService
	revoker    TokenRevoker
	bcryptCost int
	dummyHash  string
}

type RegisterInput struct {
	Email    string
	Password string
	Profile  ProfileInput
}

// TokenResponse is the OAuth2-style body returned by login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewAuthService wires the auth flow. revoker may be nil, in which case logout is unavailable
// and tokens are never checked for revocation.
func NewAuthService(
	accounts repository.AccountRepository,
	tokens *auth.TokenService,
	revoker TokenRevoker,
	bcryptCost int,
) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	// Unknown emails are compared against this hash so both login failures cost one bcrypt round.
	dummy, err := bcrypt.GenerateFromPassword([]byte("nutrilog-dummy-password"), bcryptCost)
	if err != nil {
		dummy = nil
	}
	return &AuthService{
		accounts:   accounts,
		tokens:     tokens,
		revoker:    revoker,
		bcryptCost: bcryptCost,
		dummyHash:  string(dummy),
	}
}

// Register creates an account. The returned account never carries a usable hash in JSON.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (account *models.Account, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	email := validation.NormalizeEmail(in.Email)

	var errs validation.Errors
	errs.Add("email", validation.ValidateEmail(email))
	errs.Add("password", validation.ValidatePassword(in.Password))

	account = &models.Account{Email: email}
	applyProfile(account, in.Profile, &errs)
	if err = errs.Err(); err != nil {
		observability.RecordAuthEvent("register", "invalid")
		return nil, err
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.RecordAuthEvent("register", "conflict")
		return nil, models.NewConflictError(repository.EmailTakenMessage)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if auth.IsPasswordTooLong(err) {
			return nil, models.NewFieldValidationError([]models.FieldError{{
				Field:   "password",
				Message: "password must be at most 72 bytes",
			}})
		}
		return nil, models.NewInternalError(err)
	}
	account.PasswordHash = hash

	if err = s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, models.ErrConflict) {
			observability.RecordAuthEvent("register", "conflict")
		}
		return nil, err
	}

	observability.RecordAuthEvent("register", "success")
	return account, nil
}

// Login exchanges credentials for an access token. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (resp *TokenResponse, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Login")
	defer func() { observability.EndSpan(span, err) }()

	account, err := s.accounts.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if account == nil {
		if s.dummyHash != "" {
			auth.VerifyPassword(password, s.dummyHash)
		}
		observability.RecordAuthEvent("login", "failure")
		return nil, models.NewUnauthenticatedError()
	}
	if !auth.VerifyPassword(password, account.PasswordHash) {
		observability.RecordAuthEvent("login", "failure")
		return nil, models.NewUnauthenticatedError()
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.RecordAuthEvent("login", "success")
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its account. Every failure is the same Unauthenticated
// error; only store failures on the account lookup surface as internal errors.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.Account, *auth.Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, nil, models.NewUnauthenticatedError()
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, rerr := s.revoker.IsRevoked(ctx, claims.ID)
		switch {
		case rerr != nil:
			// Redis outages do not lock every user out.
			observability.RecordAuthEvent("revocation_check", "error")
		case revoked:
			return nil, nil, models.NewUnauthenticatedError()
		}
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.NewUnauthenticatedError()
		}
		return nil, nil, err
	}
	return account, claims, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Logout")
	defer func() { observability.EndSpan(span, err) }()

	if s.revoker == nil {
		return models.NewUnavailableError("Token revocation is not available")
	}
	if claims == nil || claims.ID == "" {
		return models.NewUnauthenticatedError()
	}
	if err = s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		observability.RecordAuthEvent("logout", "error")
		return models.NewUnavailableError("Token revocation is not available")
	}
	observability.RecordAuthEvent("logout", "success")
	return nil
}
