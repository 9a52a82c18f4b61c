package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Migrator is implemented by each package's gorm store.
type Migrator func(db *gorm.DB) error

// ConnectSQLite opens a gorm handle on a local SQLite file and runs the given
// migrations. Intended for local development and demos.
func ConnectSQLite(path string, migrations ...Migrator) (*gorm.DB, error) {
	if path == "" {
		path = "mess.db"
	}
	database, err := openGorm(sqlite.Open(path), migrations)
	if err != nil {
		return nil, fmt.Errorf("sqlite %s: %w", path, err)
	}
	log.Printf("[DB] sqlite ready at %s", path)
	return database, nil
}

// ConnectGormPostgres runs the gorm stores against Postgres, letting
// AutoMigrate own the schema instead of the hand-written DDL.
func ConnectGormPostgres(dsn string, migrations ...Migrator) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	database, err := openGorm(postgres.Open(dsn), migrations)
	if err != nil {
		return nil, fmt.Errorf("gorm postgres: %w", err)
	}
	log.Println("[DB] connected to PostgreSQL via gorm")
	return database, nil
}

func openGorm(dialector gorm.Dialector, migrations []Migrator) (*gorm.DB, error) {
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	for _, migrate := range migrations {
		if err := migrate(database); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return database, nil
}
