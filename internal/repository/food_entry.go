package repository

import (
	"context"
	"errors"
	"time"

	"nutrilog/internal/models"

	"gorm.io/gorm"
)

// FoodEntryFilter narrows a listing. Nil bounds are open.
type FoodEntryFilter struct {
	Start  *time.Time
	End    *time.Time
	Offset int
	Limit  int
}

// FoodEntryRepository defines persistence operations for food entries. Every read and
// write is scoped to the owning account.
type FoodEntryRepository interface {
	Create(ctx context.Context, entry *models.FoodEntry) error
	GetOwned(ctx context.Context, accountID, id uint) (*models.FoodEntry, error)
	ListOwned(ctx context.Context, accountID uint, filter FoodEntryFilter) ([]models.FoodEntry, error)
	Update(ctx context.Context, entry *models.FoodEntry) error
	DeleteOwned(ctx context.Context, accountID, id uint) error
	SumForWindow(ctx context.Context, accountID uint, start, end time.Time) (*models.NutritionTotals, error)
}

type foodEntryRepository struct {
	db *gorm.DB
}

// NewFoodEntryRepository returns a new FoodEntryRepository implementation.
func NewFoodEntryRepository(db *gorm.DB) FoodEntryRepository {
	return &foodEntryRepository{db: db}
}

func (r *foodEntryRepository) Create(ctx context.Context, entry *models.FoodEntry) error {
	if err := r.db.WithContext(ctx).Omit("Account").Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetOwned treats an entry owned by another account exactly like a missing one.
func (r *foodEntryRepository) GetOwned(ctx context.Context, accountID, id uint) (*models.FoodEntry, error) {
	var entry models.FoodEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Food entry", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

// ListOwned returns entries newest first, ties broken by id descending.
func (r *foodEntryRepository) ListOwned(ctx context.Context, accountID uint, filter FoodEntryFilter) ([]models.FoodEntry, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if filter.Start != nil {
		query = query.Where("logged_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("logged_at <= ?", *filter.End)
	}

	entries := make([]models.FoodEntry, 0)
	err := query.
		Order("logged_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// Update writes the mutable columns of an entry the caller already owns.
func (r *foodEntryRepository) Update(ctx context.Context, entry *models.FoodEntry) error {
	result := r.db.WithContext(ctx).Model(entry).
		Where("account_id = ?", entry.AccountID).
		Select("FoodName", "Calories", "Protein", "Carbs", "Fats", "LoggedAt").
		Updates(entry)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Food entry", entry.ID)
	}
	return nil
}

func (r *foodEntryRepository) DeleteOwned(ctx context.Context, accountID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&models.FoodEntry{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Food entry", id)
	}
	return nil
}

// SumForWindow totals the account's entries with start <= logged_at <= end.
func (r *foodEntryRepository) SumForWindow(ctx context.Context, accountID uint, start, end time.Time) (*models.NutritionTotals, error) {
	var totals models.NutritionTotals
	row := r.db.WithContext(ctx).Model(&models.FoodEntry{}).
		Select("COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0), COALESCE(SUM(carbs), 0), COALESCE(SUM(fats), 0), COUNT(id)").
		Where("account_id = ? AND logged_at >= ? AND logged_at <= ?", accountID, start, end).
		Row()
	if err := row.Scan(&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fats, &totals.Count); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &totals, nil
}
