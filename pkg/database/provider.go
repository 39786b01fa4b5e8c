package database

import (
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProviderSet provides database-related dependencies
var ProviderSet = wire.NewSet(
	ProvideGorm,
	ProvideIDatabase,
)

// ProvideGorm opens the database; the cleanup closes the pool.
func ProvideGorm(conf Database, _ *log.Logger) (*gorm.DB, func(), error) {
	db, err := NewDatabase(conf)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { Close(db) }, nil
}

// ProvideIDatabase wraps *gorm.DB as IDatabase.
func ProvideIDatabase(db *gorm.DB) IDatabase {
	return NewGormDB(db)
}
