package employeetype_test

import "gorm.io/gorm"

func gormNotFound() error {
	return gorm.ErrRecordNotFound
}
