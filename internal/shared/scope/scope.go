// Package scope holds reusable gorm scopes.
package scope

import "gorm.io/gorm"

// Cadet restricts a query to rows owned by cadetID.
func Cadet(cadetID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("cadet_id = ?", cadetID)
	}
}

// Equal filters column by value, or leaves the query untouched when value is
// empty.
func Equal(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}
