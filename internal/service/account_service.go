package service

import (
	"context"
	"strings"

	"nutrilog/internal/models"
	"nutrilog/internal/observability"
	"nutrilog/internal/repository"
	"nutrilog/internal/validation"

	"github.com/shopspring/decimal"
)

type AccountService struct {
	accounts repository.AccountRepository
}

// ProfileInput carries optional profile fields. Nil means "not provided".
type ProfileInput struct {
	Name          *string
	Age           *int
	Gender        *string
	HeightCm      *decimal.Decimal
	WeightKg      *decimal.Decimal
	ActivityLevel *string
}

func NewAccountService(accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

func (s *AccountService) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// UpdateProfile applies the provided fields and leaves the rest untouched.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID uint, in ProfileInput) (account *models.Account, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AccountService", "UpdateProfile")
	defer func() { observability.EndSpan(span, err) }()

	account, err = s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var errs validation.Errors
	applyProfile(account, in, &errs)
	if err = errs.Err(); err != nil {
		return nil, err
	}

	if err = s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// applyProfile validates each provided field and copies the valid ones onto account.
func applyProfile(account *models.Account, in ProfileInput, errs *validation.Errors) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateText(name); err != nil {
			errs.Add("name", err)
		} else {
			account.Name = &name
		}
	}
	if in.Age != nil {
		if err := validation.ValidateAge(*in.Age); err != nil {
			errs.Add("age", err)
		} else {
			age := *in.Age
			account.Age = &age
		}
	}
	if in.Gender != nil {
		g := models.Gender(strings.ToLower(strings.TrimSpace(*in.Gender)))
		if err := validation.ValidateGender(g); err != nil {
			errs.Add("gender", err)
		} else {
			account.Gender = &g
		}
	}
	// Range checks apply to the value as stored, after rounding to two places.
	if in.HeightCm != nil {
		h := in.HeightCm.Round(2)
		if err := validation.ValidateHeight(h); err != nil {
			errs.Add("height_cm", err)
		} else {
			account.HeightCm = &h
		}
	}
	if in.WeightKg != nil {
		w := in.WeightKg.Round(2)
		if err := validation.ValidateWeight(w); err != nil {
			errs.Add("weight_kg", err)
		} else {
			account.WeightKg = &w
		}
	}
	if in.ActivityLevel != nil {
		a := models.ActivityLevel(strings.ToLower(strings.TrimSpace(*in.ActivityLevel)))
		if err := validation.ValidateActivityLevel(a); err != nil {
			errs.Add("activity_level", err)
		} else {
			account.ActivityLevel = &a
		}
	}
}
