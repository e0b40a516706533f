package repository

import (
	"context"
	"errors"

	"nutrilog/internal/models"

	"gorm.io/gorm"
)

// EmailTakenMessage is returned when registration hits an existing email.
const EmailTakenMessage = "Email already registered"

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	// GetByEmail returns nil, nil when no account has the email.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateProfile(ctx context.Context, account *models.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Account", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

// Create inserts the account. The unique email index arbitrates concurrent registrations.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(EmailTakenMessage)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateProfile writes the optional profile columns. Email and password hash are never touched.
func (r *accountRepository) UpdateProfile(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Model(account).
		Select("Name", "Age", "Gender", "HeightCm", "WeightKg", "ActivityLevel").
		Updates(account)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Account", account.ID)
	}
	return nil
}
