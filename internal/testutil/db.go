// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"golang-stock-portfolio/internal/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// A single connection is used so every query sees the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.User{}, &entity.Stock{}, &entity.Comment{}, &entity.Portfolio{}))
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         entity.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateStock inserts a stock with the given symbol.
func CreateStock(t *testing.T, db *gorm.DB, symbol, companyName string) *entity.Stock {
	t.Helper()
	stock := &entity.Stock{
		Symbol:      symbol,
		CompanyName: companyName,
		Industry:    "Tech",
		MarketCap:   1000,
	}
	require.NoError(t, db.Create(stock).Error)
	return stock
}
