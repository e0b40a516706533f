// Package seed creates demo accounts and food log history for development databases.
// It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"nutrilog/internal/auth"
	"nutrilog/internal/models"
	"nutrilog/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Options controls how much data SeedDemo creates.
type Options struct {
	// Email and Password of the primary demo account, which can be used to log in.
	Email    string
	Password string
	// ExtraAccounts are additional random accounts with their own history.
	ExtraAccounts int
	Days          int
	EntriesPerDay int
	BcryptCost    int
	// Seed makes the generated data reproducible. Zero uses the clock.
	Seed int64
	Now  time.Time
	Loc  *time.Location
}

// Result summarizes what was written.
type Result struct {
	Accounts []*models.Account
	Entries  int
}

type Seeder struct {
	db       *gorm.DB
	accounts repository.AccountRepository
	entries  repository.FoodEntryRepository
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:       db,
		accounts: repository.NewAccountRepository(db),
		entries:  repository.NewFoodEntryRepository(db),
	}
}

// ClearAll removes every food entry and account.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FoodEntry{}).Error; err != nil {
			return fmt.Errorf("clear food entries: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Account{}).Error; err != nil {
			return fmt.Errorf("clear accounts: %w", err)
		}
		return nil
	})
}

// SeedDemo creates the demo account plus opts.ExtraAccounts random ones, each with
// opts.Days days of entries ending today.
func (s *Seeder) SeedDemo(ctx context.Context, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	faker := gofakeit.New(opts.Seed)
	r := rand.New(rand.NewSource(opts.Seed))

	hash, err := auth.HashPassword(opts.Password, opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	emails := []string{opts.Email}
	for i := 0; i < opts.ExtraAccounts; i++ {
		emails = append(emails, fmt.Sprintf("%s.%d@example.com", faker.Username(), i))
	}

	for i, email := range emails {
		account := randomAccount(faker, email, hash)
		if i == 0 {
			name := "Demo User"
			account.Name = &name
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("create account %s: %w", email, err)
		}
		result.Accounts = append(result.Accounts, account)

		n, err := s.seedHistory(ctx, faker, r, account.ID, opts)
		if err != nil {
			return nil, err
		}
		result.Entries += n
	}
	return result, nil
}

func (s *Seeder) seedHistory(ctx context.Context, faker *gofakeit.Faker, r *rand.Rand, accountID uint, opts Options) (int, error) {
	today := opts.Now.In(opts.Loc)
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, opts.Loc)

	count := 0
	for d := 0; d < opts.Days; d++ {
		day := midnight.AddDate(0, 0, -d)
		for e := 0; e < opts.EntriesPerDay; e++ {
			// Spread meals between 07:00 and 21:59.
			loggedAt := day.Add(time.Duration(7+r.Intn(15))*time.Hour + time.Duration(r.Intn(60))*time.Minute)
			if loggedAt.After(opts.Now) {
				loggedAt = opts.Now
			}
			entry := &models.FoodEntry{
				AccountID: accountID,
				FoodName:  mealName(faker, e),
				Calories:  decimal.NewFromFloat(faker.Float64Range(40, 900)).Round(2),
				Protein:   decimal.NewFromFloat(faker.Float64Range(0, 60)).Round(2),
				Carbs:     decimal.NewFromFloat(faker.Float64Range(0, 120)).Round(2),
				Fats:      decimal.NewFromFloat(faker.Float64Range(0, 50)).Round(2),
				LoggedAt:  loggedAt,
			}
			if err := s.entries.Create(ctx, entry); err != nil {
				return count, fmt.Errorf("create entry: %w", err)
			}
			count++
		}
	}
	return count, nil
}

func mealName(faker *gofakeit.Faker, i int) string {
	switch i % 4 {
	case 0:
		return faker.Breakfast()
	case 1:
		return faker.Lunch()
	case 2:
		return faker.Dinner()
	default:
		return faker.Snack()
	}
}

func randomAccount(faker *gofakeit.Faker, email, hash string) *models.Account {
	name := faker.Name()
	age := faker.Number(18, 80)
	gender := []models.Gender{models.GenderMale, models.GenderFemale, models.GenderOther}[faker.Number(0, 2)]
	activity := []models.ActivityLevel{models.ActivityLow, models.ActivityMedium, models.ActivityHigh}[faker.Number(0, 2)]
	height := decimal.NewFromFloat(faker.Float64Range(150, 200)).Round(2)
	weight := decimal.NewFromFloat(faker.Float64Range(50, 120)).Round(2)

	return &models.Account{
		Email:         email,
		PasswordHash:  hash,
		Name:          &name,
		Age:           &age,
		Gender:        &gender,
		HeightCm:      &height,
		WeightKg:      &weight,
		ActivityLevel: &activity,
	}
}

func withDefaults(opts Options) Options {
	if opts.Email == "" {
		opts.Email = "demo@nutrilog.dev"
	}
	if opts.Password == "" {
		opts.Password = "demo-password"
	}
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.EntriesPerDay <= 0 {
		opts.EntriesPerDay = 4
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Loc == nil {
		opts.Loc = time.Local
	}
	return opts
}
