// Package models defines the persisted entities and API error types.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender is the optional self-reported gender of an account holder.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ActivityLevel is the optional self-reported activity level.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// Valid reports whether a is one of the known activity levels.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivityLow, ActivityMedium, ActivityHigh:
		return true
	}
	return false
}

// Account is a registered user. PasswordHash never leaves the service.
type Account struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Email         string           `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash  string           `gorm:"column:password_hash;not null;size:255" json:"-"`
	Name          *string          `gorm:"size:255" json:"name"`
	Age           *int             `json:"age"`
	Gender        *Gender          `gorm:"size:16" json:"gender"`
	HeightCm      *decimal.Decimal `gorm:"column:height;type:numeric(5,2)" json:"height_cm"`
	WeightKg      *decimal.Decimal `gorm:"column:weight;type:numeric(5,2)" json:"weight_kg"`
	ActivityLevel *ActivityLevel   `gorm:"size:16" json:"activity_level"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
