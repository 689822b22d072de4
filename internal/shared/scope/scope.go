package scope

import (
	"strings"

	"gorm.io/gorm"
)

// Status filters on the status column; an empty value disables the filter.
func Status(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", strings.ToUpper(status))
	}
}

// Search matches q case-insensitively against any of the given columns.
func Search(q string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		q = strings.TrimSpace(q)
		if q == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(q) + "%"

		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// Paginate applies OFFSET/LIMIT; a non-positive limit returns every row.
func Paginate(skip, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
