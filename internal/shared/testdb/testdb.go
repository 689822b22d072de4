// Package testdb opens isolated in-memory sqlite databases for repository
// and service integration tests.
package testdb

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"go-payroll/internal/shared/connection"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a gorm handle and its *sql.DB over a fresh shared-cache
// in-memory database with foreign keys enforced, migrated for models.
func Open(t *testing.T, models ...any) (*gorm.DB, *sql.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, seq.Add(1))

	cfg := connection.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// the in-memory database lives as long as one connection stays open
	sqlDB.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db, sqlDB
}
