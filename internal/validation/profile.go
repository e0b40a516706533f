package validation

import (
	"errors"

	"nutrilog/internal/models"

	"github.com/shopspring/decimal"
)

var (
	maxHeightCm = decimal.NewFromInt(300)
	maxWeightKg = decimal.NewFromInt(500)
)

// ValidateAge requires 0 < age <= 150.
func ValidateAge(age int) error {
	if age <= 0 || age > 150 {
		return errors.New("age must be between 1 and 150")
	}
	return nil
}

// ValidateHeight requires 0 < height <= 300 cm.
func ValidateHeight(height decimal.Decimal) error {
	if !height.IsPositive() || height.GreaterThan(maxHeightCm) {
		return errors.New("height_cm must be greater than 0 and at most 300")
	}
	return nil
}

// ValidateWeight requires 0 < weight <= 500 kg.
func ValidateWeight(weight decimal.Decimal) error {
	if !weight.IsPositive() || weight.GreaterThan(maxWeightKg) {
		return errors.New("weight_kg must be greater than 0 and at most 500")
	}
	return nil
}

func ValidateGender(g models.Gender) error {
	if !g.Valid() {
		return errors.New("gender must be one of male, female, other")
	}
	return nil
}

func ValidateActivityLevel(a models.ActivityLevel) error {
	if !a.Valid() {
		return errors.New("activity_level must be one of low, medium, high")
	}
	return nil
}
