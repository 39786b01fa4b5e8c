// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"testing"

	"github.com/go-arcade/quizhub/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns an in-memory sqlite database with the registered models migrated.
// A single connection keeps every statement on the same memory database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
