package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutrilog/internal/models"
	"nutrilog/internal/observability"
	"nutrilog/internal/repository"
	"nutrilog/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 26, 9, 0, 0, 0, time.UTC)

func newNutritionService(repo repository.FoodEntryRepository) *NutritionService {
	svc := NewNutritionService(repo, time.UTC, 100)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNutritionService_CreateEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("attaches owner and defaults macros to zero", func(t *testing.T) {
		t.Parallel()
		repo := noopFoodEntryRepo()
		var saved *models.FoodEntry
		repo.createFn = func(_ context.Context, e *models.FoodEntry) error {
			e.ID = 11
			saved = e
			return nil
		}
		svc := newNutritionService(repo)

		loggedAt := time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC)
		entry, err := svc.CreateEntry(ctx, CreateFoodEntryInput{
			AccountID: 5,
			FoodName:  "  Apple ",
			Calories:  dec("95"),
			Protein:   dec("0.5"),
			LoggedAt:  &loggedAt,
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(5), entry.AccountID)
		assert.Equal(t, "Apple", entry.FoodName)
		assert.True(t, entry.Calories.Equal(decimal.NewFromInt(95)))
		assert.Equal(t, "0.50", entry.Protein.StringFixed(2))
		assert.True(t, entry.Carbs.IsZero())
		assert.True(t, entry.Fats.IsZero())
	})

	tests := []struct {
		name   string
		input  CreateFoodEntryInput
		fields []string
	}{
		{
			name:   "missing everything",
			input:  CreateFoodEntryInput{AccountID: 1},
			fields: []string{"food_name", "calories", "logged_at"},
		},
		{
			name: "zero calories and negative macro",
			input: CreateFoodEntryInput{
				AccountID: 1, FoodName: "Water", Calories: dec("0"), Fats: dec("-1"),
				LoggedAt: &fixedNow,
			},
			fields: []string{"calories", "fats_g"},
		},
		{
			name: "calories that round to zero",
			input: CreateFoodEntryInput{
				AccountID: 1, FoodName: "Gum", Calories: dec("0.004"), LoggedAt: &fixedNow,
			},
			fields: []string{"calories"},
		},
		{
			name: "calories that round above column bound",
			input: CreateFoodEntryInput{
				AccountID: 1, FoodName: "Feast", Calories: dec("99999.995"), LoggedAt: &fixedNow,
			},
			fields: []string{"calories"},
		},
		{
			name: "macro that rounds above column bound",
			input: CreateFoodEntryInput{
				AccountID: 1, FoodName: "Shake", Calories: dec("300"), Protein: dec("9999.996"),
				LoggedAt: &fixedNow,
			},
			fields: []string{"protein_g"},
		},
		{
			name: "calories above column bound",
			input: CreateFoodEntryInput{
				AccountID: 1, FoodName: "Feast", Calories: dec("100000"), LoggedAt: &fixedNow,
			},
			fields: []string{"calories"},
		},
		{
			name: "logged too far in the future",
			input: CreateFoodEntryInput{
				AccountID: 1, FoodName: "Later", Calories: dec("10"),
				LoggedAt: ptr(fixedNow.Add(25 * time.Hour)),
			},
			fields: []string{"logged_at"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := newNutritionService(noopFoodEntryRepo())
			_, err := svc.CreateEntry(ctx, tc.input)
			appErr := assertValidationError(t, err)
			assert.ElementsMatch(t, tc.fields, fieldNames(appErr))
		})
	}
}

func TestNutritionService_UpdateEntry_SubCentCalories(t *testing.T) {
	t.Parallel()

	repo := noopFoodEntryRepo()
	repo.getOwnedFn = func(_ context.Context, accountID, id uint) (*models.FoodEntry, error) {
		return &models.FoodEntry{ID: id, AccountID: accountID, FoodName: "Gum", Calories: decimal.NewFromInt(5)}, nil
	}
	updated := false
	repo.updateFn = func(context.Context, *models.FoodEntry) error {
		updated = true
		return nil
	}
	svc := newNutritionService(repo)

	_, err := svc.UpdateEntry(context.Background(), UpdateFoodEntryInput{AccountID: 1, EntryID: 3, Calories: dec("0.004")})
	appErr := assertValidationError(t, err)
	assert.Equal(t, []string{"calories"}, fieldNames(appErr))
	assert.False(t, updated)

	entry, err := svc.UpdateEntry(context.Background(), UpdateFoodEntryInput{AccountID: 1, EntryID: 3, Calories: dec("0.005")})
	require.NoError(t, err)
	assert.Equal(t, "0.01", entry.Calories.StringFixed(2))
}

func TestNutritionService_GetEntry_RecordsOperation(t *testing.T) {
	t.Parallel()

	repo := noopFoodEntryRepo()
	repo.getOwnedFn = func(_ context.Context, accountID, id uint) (*models.FoodEntry, error) {
		return &models.FoodEntry{ID: id, AccountID: accountID}, nil
	}
	svc := newNutritionService(repo)

	before := promtest.ToFloat64(observability.FoodEntryOperations.WithLabelValues("get"))
	entry, err := svc.GetEntry(context.Background(), 4, 9)
	require.NoError(t, err)
	assert.Equal(t, uint(9), entry.ID)
	assert.GreaterOrEqual(t, promtest.ToFloat64(observability.FoodEntryOperations.WithLabelValues("get")), before+1)
}

func TestNutritionService_ListEntries_Pagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		skip      int
		limit     int
		wantLimit int
	}{
		{"default limit", 0, 0, 100},
		{"explicit limit", 5, 20, 20},
		{"limit clamped to maximum", 0, 1000, 100},
		{"negative limit uses maximum", 0, -4, 100},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got repository.FoodEntryFilter
			repo := noopFoodEntryRepo()
			repo.listOwnedFn = func(_ context.Context, _ uint, f repository.FoodEntryFilter) ([]models.FoodEntry, error) {
				got = f
				return []models.FoodEntry{}, nil
			}
			svc := newNutritionService(repo)
			_, err := svc.ListEntries(context.Background(), ListFoodEntriesInput{AccountID: 1, Skip: tc.skip, Limit: tc.limit})
			require.NoError(t, err)
			assert.Equal(t, tc.skip, got.Offset)
			assert.Equal(t, tc.wantLimit, got.Limit)
		})
	}

	t.Run("negative skip is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newNutritionService(noopFoodEntryRepo())
		_, err := svc.ListEntries(context.Background(), ListFoodEntriesInput{AccountID: 1, Skip: -1})
		appErr := assertValidationError(t, err)
		assert.Equal(t, []string{"skip"}, fieldNames(appErr))
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newNutritionService(noopFoodEntryRepo())
		start := fixedNow
		end := fixedNow.Add(-time.Hour)
		_, err := svc.ListEntries(context.Background(), ListFoodEntriesInput{AccountID: 1, Start: &start, End: &end})
		assertValidationError(t, err)
	})
}

func TestNutritionService_UpdateEntry_PartialUpdate(t *testing.T) {
	t.Parallel()

	loggedAt := time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC)
	repo := noopFoodEntryRepo()
	repo.getOwnedFn = func(_ context.Context, accountID, id uint) (*models.FoodEntry, error) {
		return &models.FoodEntry{
			ID: id, AccountID: accountID, FoodName: "Apple",
			Calories: decimal.NewFromInt(95), Protein: decimal.RequireFromString("0.5"),
			Carbs: decimal.NewFromInt(25), LoggedAt: loggedAt,
		}, nil
	}
	var saved *models.FoodEntry
	repo.updateFn = func(_ context.Context, e *models.FoodEntry) error {
		saved = e
		return nil
	}
	svc := newNutritionService(repo)

	entry, err := svc.UpdateEntry(context.Background(), UpdateFoodEntryInput{
		AccountID: 2, EntryID: 8, FoodName: ptr("Green Apple"),
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Green Apple", entry.FoodName)
	assert.True(t, entry.Calories.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, "0.50", entry.Protein.StringFixed(2))
	assert.True(t, entry.Carbs.Equal(decimal.NewFromInt(25)))
	assert.True(t, entry.LoggedAt.Equal(loggedAt))
}

func TestNutritionService_NotOwned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := noopFoodEntryRepo()
	repo.getOwnedFn = func(_ context.Context, _, id uint) (*models.FoodEntry, error) {
		return nil, models.NewNotFoundError("Food entry", id)
	}
	repo.deleteOwnedFn = func(_ context.Context, _, id uint) error {
		return models.NewNotFoundError("Food entry", id)
	}
	updated := false
	repo.updateFn = func(context.Context, *models.FoodEntry) error {
		updated = true
		return nil
	}
	svc := newNutritionService(repo)

	_, err := svc.GetEntry(ctx, 2, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.UpdateEntry(ctx, UpdateFoodEntryInput{AccountID: 2, EntryID: 1, FoodName: ptr("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, updated)
	assert.ErrorIs(t, svc.DeleteEntry(ctx, 2, 1), models.ErrNotFound)
}

func TestNutritionService_DailySummary_Window(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	var gotStart, gotEnd time.Time
	repo := noopFoodEntryRepo()
	repo.sumForWindowFn = func(_ context.Context, _ uint, start, end time.Time) (*models.NutritionTotals, error) {
		gotStart, gotEnd = start, end
		return &models.NutritionTotals{Calories: decimal.RequireFromString("10.005"), Count: 1}, nil
	}
	svc := NewNutritionService(repo, loc, 100)

	summary, err := svc.DailySummary(context.Background(), 1, time.Date(2026, 3, 1, 15, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", summary.Date)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), gotStart)
	assert.Equal(t, time.Date(2026, 3, 1, 23, 59, 59, 999999000, loc), gotEnd)
	assert.Equal(t, "10.01", summary.TotalCalories.StringFixed(2))
}

func TestNutritionService_DailySummary_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := models.NewInternalError(errors.New("db down"))
	repo := noopFoodEntryRepo()
	repo.sumForWindowFn = func(context.Context, uint, time.Time, time.Time) (*models.NutritionTotals, error) {
		return nil, repoErr
	}
	_, err := newNutritionService(repo).DailySummary(context.Background(), 1, fixedNow)
	assert.ErrorIs(t, err, repoErr)
}

func TestNutritionService_DailySummary_Store(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	account := &models.Account{Email: "eve@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(account).Error)
	svc := newNutritionService(repository.NewFoodEntryRepository(db))

	day := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)

	empty, err := svc.DailySummary(ctx, account.ID, day)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.EntriesCount)
	assert.True(t, empty.TotalCalories.IsZero())
	assert.True(t, empty.TotalProtein.IsZero())

	create := func(name, calories, protein string, at time.Time) {
		_, err := svc.CreateEntry(ctx, CreateFoodEntryInput{
			AccountID: account.ID, FoodName: name, Calories: dec(calories), Protein: dec(protein), LoggedAt: &at,
		})
		require.NoError(t, err)
	}
	create("Apple", "95", "0.5", day.Add(12*time.Hour))
	create("Banana", "105", "1.3", day.Add(14*time.Hour))
	create("Midnight snack", "50", "0", day)
	create("Late snack", "40", "0", day.Add(24*time.Hour-time.Second))
	create("Next day", "300", "10", day.Add(24*time.Hour))

	summary, err := svc.DailySummary(ctx, account.ID, day)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.EntriesCount)
	assert.Equal(t, "290.00", summary.TotalCalories.StringFixed(2))
	assert.Equal(t, "1.80", summary.TotalProtein.StringFixed(2))
}
