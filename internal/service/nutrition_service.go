package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"nutrilog/internal/models"
	"nutrilog/internal/observability"
	"nutrilog/internal/repository"
	"nutrilog/internal/validation"

	"github.com/shopspring/decimal"
)

// DefaultListLimit caps listings when no maximum is configured.
const DefaultListLimit = 100

var errRequired = errors.New("field required")

type NutritionService struct {
	entries  repository.FoodEntryRepository
	loc      *time.Location
	maxLimit int
	now      func() time.Time
}

type CreateFoodEntryInput struct {
	AccountID uint
	FoodName  string
	Calories  *decimal.Decimal
	Protein   *decimal.Decimal
	Carbs     *decimal.Decimal
	Fats      *decimal.Decimal
	LoggedAt  *time.Time
}

// UpdateFoodEntryInput changes only the non-nil fields.
type UpdateFoodEntryInput struct {
	AccountID uint
	EntryID   uint
	FoodName  *string
	Calories  *decimal.Decimal
	Protein   *decimal.Decimal
	Carbs     *decimal.Decimal
	Fats      *decimal.Decimal
	LoggedAt  *time.Time
}

type ListFoodEntriesInput struct {
	AccountID uint
	Skip      int
	Limit     int
	Start     *time.Time
	End       *time.Time
}

// NewNutritionService builds the food log service. loc is the reference calendar for day windows.
func NewNutritionService(entries repository.FoodEntryRepository, loc *time.Location, maxLimit int) *NutritionService {
	if loc == nil {
		loc = time.Local
	}
	if maxLimit <= 0 {
		maxLimit = DefaultListLimit
	}
	return &NutritionService{
		entries:  entries,
		loc:      loc,
		maxLimit: maxLimit,
		now:      time.Now,
	}
}

// MaxLimit is the largest page size ListEntries returns.
func (s *NutritionService) MaxLimit() int {
	return s.maxLimit
}

// Location is the reference location for timestamps without a zone and for day windows.
func (s *NutritionService) Location() *time.Location {
	return s.loc
}

func (s *NutritionService) CreateEntry(ctx context.Context, in CreateFoodEntryInput) (entry *models.FoodEntry, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NutritionService", "CreateEntry")
	defer func() { observability.EndSpan(span, err) }()

	entry = &models.FoodEntry{AccountID: in.AccountID}

	var errs validation.Errors
	name := strings.TrimSpace(in.FoodName)
	if err := validation.ValidateText(name); err != nil {
		errs.Add("food_name", err)
	}
	entry.FoodName = name

	if in.Calories == nil {
		errs.Add("calories", errRequired)
	} else {
		entry.Calories = s.calories(&errs, *in.Calories, decimal.Zero)
	}

	entry.Protein = s.macro(&errs, "protein_g", in.Protein, decimal.Zero)
	entry.Carbs = s.macro(&errs, "carbs_g", in.Carbs, decimal.Zero)
	entry.Fats = s.macro(&errs, "fats_g", in.Fats, decimal.Zero)

	if in.LoggedAt == nil {
		errs.Add("logged_at", errRequired)
	} else if err := validation.ValidateLoggedAt(*in.LoggedAt, s.now()); err != nil {
		errs.Add("logged_at", err)
	} else {
		entry.LoggedAt = s.normalize(*in.LoggedAt)
	}

	if err = errs.Err(); err != nil {
		return nil, err
	}

	if err = s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	observability.FoodEntryOperations.WithLabelValues("create").Inc()
	return entry, nil
}

// ListEntries pages through the account's entries newest first. Limits above the maximum are
// clamped and a non-positive limit means the maximum.
func (s *NutritionService) ListEntries(ctx context.Context, in ListFoodEntriesInput) (entries []models.FoodEntry, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NutritionService", "ListEntries")
	defer func() { observability.EndSpan(span, err) }()

	if in.Skip < 0 {
		return nil, models.NewFieldValidationError([]models.FieldError{{
			Field:   "skip",
			Message: "must be greater than or equal to 0",
		}})
	}
	limit := in.Limit
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}

	filter := repository.FoodEntryFilter{Offset: in.Skip, Limit: limit}
	if in.Start != nil {
		start := s.normalize(*in.Start)
		filter.Start = &start
	}
	if in.End != nil {
		end := s.normalize(*in.End)
		filter.End = &end
	}
	if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return nil, models.NewFieldValidationError([]models.FieldError{{
			Field:   "start_date",
			Message: "start_date must not be after end_date",
		}})
	}

	entries, err = s.entries.ListOwned(ctx, in.AccountID, filter)
	if err != nil {
		return nil, err
	}
	observability.FoodEntryOperations.WithLabelValues("list").Inc()
	return entries, nil
}

// GetEntry returns NotFound both for missing entries and for entries owned by someone else.
func (s *NutritionService) GetEntry(ctx context.Context, accountID, entryID uint) (entry *models.FoodEntry, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NutritionService", "GetEntry")
	defer func() { observability.EndSpan(span, err) }()

	entry, err = s.entries.GetOwned(ctx, accountID, entryID)
	if err != nil {
		return nil, err
	}
	observability.FoodEntryOperations.WithLabelValues("get").Inc()
	return entry, nil
}

func (s *NutritionService) UpdateEntry(ctx context.Context, in UpdateFoodEntryInput) (entry *models.FoodEntry, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NutritionService", "UpdateEntry")
	defer func() { observability.EndSpan(span, err) }()

	entry, err = s.entries.GetOwned(ctx, in.AccountID, in.EntryID)
	if err != nil {
		return nil, err
	}

	var errs validation.Errors
	if in.FoodName != nil {
		name := strings.TrimSpace(*in.FoodName)
		if err := validation.ValidateText(name); err != nil {
			errs.Add("food_name", err)
		} else {
			entry.FoodName = name
		}
	}
	if in.Calories != nil {
		entry.Calories = s.calories(&errs, *in.Calories, entry.Calories)
	}
	entry.Protein = s.macro(&errs, "protein_g", in.Protein, entry.Protein)
	entry.Carbs = s.macro(&errs, "carbs_g", in.Carbs, entry.Carbs)
	entry.Fats = s.macro(&errs, "fats_g", in.Fats, entry.Fats)
	if in.LoggedAt != nil {
		if err := validation.ValidateLoggedAt(*in.LoggedAt, s.now()); err != nil {
			errs.Add("logged_at", err)
		} else {
			entry.LoggedAt = s.normalize(*in.LoggedAt)
		}
	}
	if err = errs.Err(); err != nil {
		return nil, err
	}

	if err = s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	observability.FoodEntryOperations.WithLabelValues("update").Inc()
	return entry, nil
}

func (s *NutritionService) DeleteEntry(ctx context.Context, accountID, entryID uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NutritionService", "DeleteEntry")
	defer func() { observability.EndSpan(span, err) }()

	if err = s.entries.DeleteOwned(ctx, accountID, entryID); err != nil {
		return err
	}
	observability.FoodEntryOperations.WithLabelValues("delete").Inc()
	return nil
}

// DailySummary totals the account's entries for day's calendar date, both ends inclusive.
// A day with no entries yields zero totals.
func (s *NutritionService) DailySummary(ctx context.Context, accountID uint, day time.Time) (summary *models.DailySummary, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NutritionService", "DailySummary")
	defer func() { observability.EndSpan(span, err) }()

	start, end := validation.DayWindow(day, s.loc)
	totals, err := s.entries.SumForWindow(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}

	observability.FoodEntryOperations.WithLabelValues("summary").Inc()
	return &models.DailySummary{
		Date:          start.Format(time.DateOnly),
		TotalCalories: totals.Calories.Round(2),
		TotalProtein:  totals.Protein.Round(2),
		TotalCarbs:    totals.Carbs.Round(2),
		TotalFats:     totals.Fats.Round(2),
		EntriesCount:  totals.Count,
	}, nil
}

// Today is the current calendar date in the reference location.
func (s *NutritionService) Today() time.Time {
	return s.now().In(s.loc)
}

// calories validates value at stored precision, two decimal places.
func (s *NutritionService) calories(errs *validation.Errors, value, fallback decimal.Decimal) decimal.Decimal {
	rounded := value.Round(2)
	if err := validation.ValidateCalories(rounded); err != nil {
		errs.Add("calories", err)
		return fallback
	}
	return rounded
}

// macro validates an optional macronutrient at stored precision, returning fallback when it is
// absent or invalid.
func (s *NutritionService) macro(errs *validation.Errors, field string, value *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if value == nil {
		return fallback
	}
	rounded := value.Round(2)
	if err := validation.ValidateMacro(rounded); err != nil {
		errs.Add(field, err)
		return fallback
	}
	return rounded
}

// normalize stores every timestamp in the reference location so range comparisons stay
// consistent on stores that compare timestamps as text.
func (s *NutritionService) normalize(t time.Time) time.Time {
	return t.In(s.loc)
}
