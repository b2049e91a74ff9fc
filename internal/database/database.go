package database

import (
	"fmt"
	"strings"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the store named by dsn and migrates the schema. DSNs starting
// with postgres:// or postgresql:// go to Postgres, anything else is treated
// as a SQLite path (":memory:" included).
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		// Registrations keep a weak reference to their event; deleting an
		// event must not be blocked by them.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if isSQLite(dsn) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Event{}, &models.Registration{}, &models.User{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func dialector(dsn string) gorm.Dialector {
	if isSQLite(dsn) {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

func isSQLite(dsn string) bool {
	return !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://")
}
