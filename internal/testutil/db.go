// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/pestozap/pestozap-backend/internal/database"
	"github.com/pestozap/pestozap-backend/internal/model"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		LogLevel: "silent",
		SQLite: config.SQLiteConfig{
			Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()),
		},
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active user with the given email and flags.
func CreateUser(t testing.TB, db *gorm.DB, email string, staff bool) *model.User {
	t.Helper()

	u := &model.User{
		Email:     email,
		Username:  email,
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
		IsStaff:   staff,
	}
	if err := u.SetPassword("Passw0rd!"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
