// Package validation checks request input before it reaches the repositories.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"nutrilog/internal/models"
)

// Errors accumulates field-level failures so one response can report all of them.
type Errors []models.FieldError

// Add records err against field. A nil err is ignored.
func (e *Errors) Add(field string, err error) {
	if err == nil {
		return
	}
	*e = append(*e, models.FieldError{Field: field, Message: err.Error()})
}

// Err returns a validation AppError, or nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return models.NewFieldValidationError(e)
}

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
	maxEmailLength    = 254
	maxTextLength     = 255
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9](?:[a-zA-Z0-9\-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9\-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the syntax of an already-normalized address.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if strings.Contains(email, "..") || !emailRegex.MatchString(email) {
		return errors.New("email is not a valid address")
	}
	return nil
}

// ValidatePassword enforces the length bounds a bcrypt hash can represent.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// ValidateText checks a required or optional short text field (1..255 characters).
func ValidateText(value string) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return errors.New("must not be empty")
	}
	if n > maxTextLength {
		return fmt.Errorf("must be at most %d characters", maxTextLength)
	}
	return nil
}
