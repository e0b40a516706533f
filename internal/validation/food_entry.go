package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column bounds for numeric(7,2) and numeric(6,2).
var (
	maxCalories = decimal.RequireFromString("99999.99")
	maxMacro    = decimal.RequireFromString("9999.99")
)

// MaxFutureSkew is how far ahead of now an entry may be logged.
const MaxFutureSkew = 24 * time.Hour

// ValidateCalories requires 0 < calories <= 99999.99.
func ValidateCalories(calories decimal.Decimal) error {
	if !calories.IsPositive() {
		return errors.New("calories must be greater than 0")
	}
	if calories.GreaterThan(maxCalories) {
		return fmt.Errorf("calories must be at most %s", maxCalories)
	}
	return nil
}

// ValidateMacro requires 0 <= grams <= 9999.99.
func ValidateMacro(grams decimal.Decimal) error {
	if grams.IsNegative() {
		return errors.New("must be greater than or equal to 0")
	}
	if grams.GreaterThan(maxMacro) {
		return fmt.Errorf("must be at most %s", maxMacro)
	}
	return nil
}

// ValidateLoggedAt rejects timestamps more than MaxFutureSkew after now.
func ValidateLoggedAt(loggedAt, now time.Time) error {
	if loggedAt.After(now.Add(MaxFutureSkew)) {
		return errors.New("logged_at must not be more than 24 hours in the future")
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 or a zone-less ISO-8601 datetime, which is read in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("must not be empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid ISO-8601 datetime", value)
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a valid YYYY-MM-DD date", value)
	}
	return t, nil
}

// DayWindow returns the inclusive bounds of day's calendar day in loc:
// 00:00:00 through 23:59:59.999999.
func DayWindow(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Microsecond)
	return start, end
}
