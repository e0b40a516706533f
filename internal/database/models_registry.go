package database

import "nutrilog/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models, parents first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.FoodEntry{},
	}
}
