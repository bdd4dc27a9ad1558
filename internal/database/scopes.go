package database

import "gorm.io/gorm"

// Paginate limits a list query to one page. Page numbering starts at 1; a
// non-positive page or limit leaves the query unpaginated.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 || limit < 1 {
			return db
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
