package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FoodEntry is one consumption record owned by an account.
type FoodEntry struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AccountID uint            `gorm:"not null;index:idx_food_entries_account_logged,priority:1" json:"account_id"`
	Account   *Account        `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	FoodName  string          `gorm:"not null;size:255" json:"food_name"`
	Calories  decimal.Decimal `gorm:"type:numeric(7,2);not null" json:"calories"`
	Protein   decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0" json:"protein_g"`
	Carbs     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0" json:"carbs_g"`
	Fats      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0" json:"fats_g"`
	LoggedAt  time.Time       `gorm:"not null;index:idx_food_entries_account_logged,priority:2" json:"logged_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (FoodEntry) TableName() string {
	return "food_entries"
}

// NutritionTotals are raw sums over a set of entries.
type NutritionTotals struct {
	Calories decimal.Decimal
	Protein  decimal.Decimal
	Carbs    decimal.Decimal
	Fats     decimal.Decimal
	Count    int64
}

// DailySummary aggregates one account's entries over a calendar day.
type DailySummary struct {
	Date          string          `json:"date"`
	TotalCalories decimal.Decimal `json:"total_calories"`
	TotalProtein  decimal.Decimal `json:"total_protein_g"`
	TotalCarbs    decimal.Decimal `json:"total_carbs_g"`
	TotalFats     decimal.Decimal `json:"total_fats_g"`
	EntriesCount  int64           `json:"entries_count"`
}

// MarshalJSON renders totals with exactly two fractional digits.
func (s DailySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date          string `json:"date"`
		TotalCalories string `json:"total_calories"`
		TotalProtein  string `json:"total_protein_g"`
		TotalCarbs    string `json:"total_carbs_g"`
		TotalFats     string `json:"total_fats_g"`
		EntriesCount  int64  `json:"entries_count"`
	}{
		Date:          s.Date,
		TotalCalories: s.TotalCalories.StringFixed(2),
		TotalProtein:  s.TotalProtein.StringFixed(2),
		TotalCarbs:    s.TotalCarbs.StringFixed(2),
		TotalFats:     s.TotalFats.StringFixed(2),
		EntriesCount:  s.EntriesCount,
	})
}

// MarshalJSON renders nutrient values with exactly two fractional digits.
func (e FoodEntry) MarshalJSON() ([]byte, error) {
	type plain FoodEntry
	return json.Marshal(struct {
		plain
		Calories string `json:"calories"`
		Protein  string `json:"protein_g"`
		Carbs    string `json:"carbs_g"`
		Fats     string `json:"fats_g"`
	}{
		plain:    plain(e),
		Calories: e.Calories.StringFixed(2),
		Protein:  e.Protein.StringFixed(2),
		Carbs:    e.Carbs.StringFixed(2),
		Fats:     e.Fats.StringFixed(2),
	})
}
