package database

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pestozap/pestozap-backend/internal/config"
)

func getTestSQLiteConfig(t *testing.T) *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:   "sqlite",
		LogLevel: "silent",
		SQLite:   config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
}

// getTestPostgresConfig reads PESTOZAP_TEST_PG_* variables; tests skip when unset.
func getTestPostgresConfig(t *testing.T) *config.DatabaseConfig {
	host := os.Getenv("PESTOZAP_TEST_PG_HOST")
	if host == "" {
		t.Skip("skipping: PESTOZAP_TEST_PG_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("PESTOZAP_TEST_PG_PORT"))
	if port == 0 {
		port = 5432
	}
	return &config.DatabaseConfig{
		Driver:   "postgres",
		LogLevel: "silent",
		Postgres: config.PostgresConfig{
			Host:     host,
			Port:     port,
			User:     os.Getenv("PESTOZAP_TEST_PG_USER"),
			Password: os.Getenv("PESTOZAP_TEST_PG_PASSWORD"),
			DBName:   os.Getenv("PESTOZAP_TEST_PG_DB"),
			SSLMode:  "disable",
		},
	}
}

// TestInitSQLite initializes against a temporary sqlite file.
func TestInitSQLite(t *testing.T) {
	if err := Init(getTestSQLiteConfig(t)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	if GetDB() == nil {
		t.Error("GetDB() returned nil")
	}
	if err := Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

// TestInitPostgres runs only against a configured server.
func TestInitPostgres(t *testing.T) {
	cfg := getTestPostgresConfig(t)
	if err := Init(cfg); err != nil {
		t.Skipf("skipping: cannot connect to PostgreSQL: %v", err)
	}
	defer Close()

	if GetDB() == nil {
		t.Error("GetDB() returned nil")
	}
}

// TestInitUnsupportedDriver rejects unknown drivers.
func TestInitUnsupportedDriver(t *testing.T) {
	err := Init(&config.DatabaseConfig{Driver: "unsupported"})
	if err == nil {
		t.Error("expected an error, got nil")
	}
}

// TestPingNotInitialized fails without a handle.
func TestPingNotInitialized(t *testing.T) {
	db = nil

	if err := Ping(); err == nil {
		t.Error("expected an error, got nil")
	}
}

// TestCloseNil is a no-op without a handle.
func TestCloseNil(t *testing.T) {
	db = nil

	if err := Close(); err != nil {
		t.Errorf("Close on nil handle should not fail: %v", err)
	}
}

// TestAutoMigrateAndDrop round-trips a throwaway table.
func TestAutoMigrateAndDrop(t *testing.T) {
	if err := Init(getTestSQLiteConfig(t)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	type TestModel struct {
		ID   string `gorm:"primaryKey"`
		Name string
	}

	if err := AutoMigrate(&TestModel{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	if !GetDB().Migrator().HasTable(&TestModel{}) {
		t.Fatal("expected table to exist after migration")
	}
	if err := DropTables(&TestModel{}); err != nil {
		t.Fatalf("DropTables failed: %v", err)
	}
	if GetDB().Migrator().HasTable(&TestModel{}) {
		t.Error("expected table to be gone after drop")
	}
}

// TestAutoMigrateNotInitialized fails without a handle.
func TestAutoMigrateNotInitialized(t *testing.T) {
	db = nil

	type TestModel struct {
		ID string `gorm:"primaryKey"`
	}

	if err := AutoMigrate(&TestModel{}); err == nil {
		t.Error("expected an error, got nil")
	}
}
