// Command seed fills a development database with a demo account and food log history.
package main

import (
	"context"
	"flag"
	"log"

	"nutrilog/internal/config"
	"nutrilog/internal/database"
	"nutrilog/internal/seed"
)

func main() {
	email := flag.String("email", "demo@nutrilog.dev", "Demo account email")
	password := flag.String("password", "demo-password", "Demo account password")
	extra := flag.Int("accounts", 5, "Number of additional random accounts")
	days := flag.Int("days", 7, "Days of history per account")
	perDay := flag.Int("entries", 4, "Entries per day")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid TIMEZONE: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	result, err := s.SeedDemo(ctx, seed.Options{
		Email:         *email,
		Password:      *password,
		ExtraAccounts: *extra,
		Days:          *days,
		EntriesPerDay: *perDay,
		BcryptCost:    cfg.BcryptCost,
		Loc:           loc,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d accounts and %d food entries", len(result.Accounts), result.Entries)
	log.Printf("Log in as %s / %s", *email, *password)
}
