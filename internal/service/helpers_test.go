package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutrilog/internal/models"
	"nutrilog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.Account, error)
	getByEmailFn    func(context.Context, string) (*models.Account, error)
	createFn        func(context.Context, *models.Account) error
	updateProfileFn func(context.Context, *models.Account) error
}

func (s *accountRepoStub) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.getByIDFn(ctx, id)
}
func (s *accountRepoStub) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *accountRepoStub) Create(ctx context.Context, account *models.Account) error {
	return s.createFn(ctx, account)
}
func (s *accountRepoStub) UpdateProfile(ctx context.Context, account *models.Account) error {
	return s.updateProfileFn(ctx, account)
}

func noopAccountRepo() *accountRepoStub {
	return &accountRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.Account, error) { return &models.Account{ID: id}, nil },
		getByEmailFn:    func(context.Context, string) (*models.Account, error) { return nil, nil },
		createFn:        func(context.Context, *models.Account) error { return nil },
		updateProfileFn: func(context.Context, *models.Account) error { return nil },
	}
}

type foodEntryRepoStub struct {
	createFn       func(context.Context, *models.FoodEntry) error
	getOwnedFn     func(context.Context, uint, uint) (*models.FoodEntry, error)
	listOwnedFn    func(context.Context, uint, repository.FoodEntryFilter) ([]models.FoodEntry, error)
	updateFn       func(context.Context, *models.FoodEntry) error
	deleteOwnedFn  func(context.Context, uint, uint) error
	sumForWindowFn func(context.Context, uint, time.Time, time.Time) (*models.NutritionTotals, error)
}

func (s *foodEntryRepoStub) Create(ctx context.Context, entry *models.FoodEntry) error {
	return s.createFn(ctx, entry)
}
func (s *foodEntryRepoStub) GetOwned(ctx context.Context, accountID, id uint) (*models.FoodEntry, error) {
	return s.getOwnedFn(ctx, accountID, id)
}
func (s *foodEntryRepoStub) ListOwned(ctx context.Context, accountID uint, filter repository.FoodEntryFilter) ([]models.FoodEntry, error) {
	return s.listOwnedFn(ctx, accountID, filter)
}
func (s *foodEntryRepoStub) Update(ctx context.Context, entry *models.FoodEntry) error {
	return s.updateFn(ctx, entry)
}
func (s *foodEntryRepoStub) DeleteOwned(ctx context.Context, accountID, id uint) error {
	return s.deleteOwnedFn(ctx, accountID, id)
}
func (s *foodEntryRepoStub) SumForWindow(ctx context.Context, accountID uint, start, end time.Time) (*models.NutritionTotals, error) {
	return s.sumForWindowFn(ctx, accountID, start, end)
}

func noopFoodEntryRepo() *foodEntryRepoStub {
	return &foodEntryRepoStub{
		createFn: func(context.Context, *models.FoodEntry) error { return nil },
		getOwnedFn: func(_ context.Context, accountID, id uint) (*models.FoodEntry, error) {
			return &models.FoodEntry{ID: id, AccountID: accountID}, nil
		},
		listOwnedFn: func(context.Context, uint, repository.FoodEntryFilter) ([]models.FoodEntry, error) {
			return []models.FoodEntry{}, nil
		},
		updateFn:      func(context.Context, *models.FoodEntry) error { return nil },
		deleteOwnedFn: func(context.Context, uint, uint) error { return nil },
		sumForWindowFn: func(context.Context, uint, time.Time, time.Time) (*models.NutritionTotals, error) {
			return &models.NutritionTotals{}, nil
		},
	}
}

type revokerStub struct {
	revokeFn    func(context.Context, string, time.Time) error
	isRevokedFn func(context.Context, string) (bool, error)
}

func (s *revokerStub) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.revokeFn(ctx, jti, expiresAt)
}
func (s *revokerStub) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.isRevokedFn(ctx, jti)
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) *models.AppError {
	t.Helper()
	return assertAppError(t, err, models.CodeValidation)
}

func fieldNames(appErr *models.AppError) []string {
	names := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func ptr[T any](v T) *T {
	return &v
}
