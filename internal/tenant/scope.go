package tenant

import "gorm.io/gorm"

// ForSociety returns a GORM scope that filters by society_code.
func ForSociety(code string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("society_code = ?", code)
	}
}

// ForScope filters rows published at a society or federation scope.
func ForScope(kind, code string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("scope_kind = ? AND scope_code = ?", kind, code)
	}
}
