package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"nutrilog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		email         string
		mockBehavior  func()
		expectNil     bool
		expectedError bool
	}{
		{
			name:  "Success",
			email: "a@x.com",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "email", "password_hash"}).
					AddRow(1, "a@x.com", "hash")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE email = $1 ORDER BY "accounts"."id" LIMIT $2`)).
					WithArgs("a@x.com", 1).
					WillReturnRows(rows)
			},
		},
		{
			name:  "Not Found Returns Nil",
			email: "missing@x.com",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE email = $1`)).
					WithArgs("missing@x.com", 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
			},
			expectNil: true,
		},
		{
			name:  "Database Error",
			email: "a@x.com",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE email = $1`)).
					WithArgs("a@x.com", 1).
					WillReturnError(errors.New("connection timeout"))
			},
			expectNil:     true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			account, err := repo.GetByEmail(ctx, tt.email)

			if tt.expectedError {
				assert.ErrorIs(t, err, models.ErrInternal)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectNil {
				assert.Nil(t, account)
			} else if assert.NotNil(t, account) {
				assert.Equal(t, tt.email, account.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"idx_accounts_email\""})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, EmailTakenMessage, err.(*models.AppError).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	account := &models.Account{Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.Equal(t, uint(5), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &models.Account{Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, account))
	require.NotZero(t, account.ID)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &models.Account{Email: "a@x.com", PasswordHash: "other"})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", got.Email)
		assert.Nil(t, got.Age)
	})

	t.Run("get by id missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("update profile leaves credentials alone", func(t *testing.T) {
		age := 30
		height := decimal.RequireFromString("175.5")
		gender := models.GenderFemale
		account.Age = &age
		account.HeightCm = &height
		account.Gender = &gender
		account.PasswordHash = "tampered"
		require.NoError(t, repo.UpdateProfile(ctx, account))

		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Age)
		assert.Equal(t, 30, *got.Age)
		require.NotNil(t, got.HeightCm)
		assert.True(t, got.HeightCm.Equal(height))
		assert.Equal(t, models.GenderFemale, *got.Gender)
		assert.Equal(t, "hash", got.PasswordHash)
	})
}
