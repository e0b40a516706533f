package repository

import (
	"testing"
	"time"

	"nutrilog/internal/models"
	"nutrilog/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	return testutil.NewMockPostgresDB(t)
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

func createAccount(t *testing.T, db *gorm.DB, email string) *models.Account {
	account := &models.Account{Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Create(account).Error)
	return account
}

func createEntry(t *testing.T, db *gorm.DB, accountID uint, name string, calories string, loggedAt time.Time) *models.FoodEntry {
	entry := &models.FoodEntry{
		AccountID: accountID,
		FoodName:  name,
		Calories:  decimal.RequireFromString(calories),
		LoggedAt:  loggedAt,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}
