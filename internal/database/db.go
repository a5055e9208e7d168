package database

import (
	"fmt"
	"strings"

	"gourmet/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"               // SQLite driver
)

// Config selects the order store backend
type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

// Open connects to the configured database and migrates the order tables
func Open(cfg Config) (*gorm.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := cfg.DSN
	if dsn == "" && driver == "sqlite3" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite3" && strings.Contains(dsn, ":memory:") {
		// Every pooled connection would otherwise get its own empty database.
		db.DB().SetMaxOpenConns(1)
	}
	db.LogMode(cfg.Debug)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the order tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.OrderRecord{},
		&models.OrderItemRecord{},
		&models.StatusTransition{},
	).Error; err != nil {
		return fmt.Errorf("migrate order tables: %w", err)
	}
	return nil
}
