package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Println("[DB] connected to PostgreSQL")

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return pool, nil
}

// initSchema creates or updates the database schema
func initSchema(ctx context.Context, db DBTX) error {
	statements := []string{
		// -------------------------------
		// USERS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'student',
			gender VARCHAR(10) NULL,
			hostel VARCHAR(100) NULL,
			study_year VARCHAR(10) NULL,
			branch VARCHAR(20) NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_by VARCHAR(255) NULL
		)`,

		// -------------------------------
		// LEDGER
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS meal_selections (
			id UUID PRIMARY KEY,
			owner_id VARCHAR(255) NOT NULL,
			key VARCHAR(32) NOT NULL,
			meal VARCHAR(20) NOT NULL,
			diet VARCHAR(10) NOT NULL,
			year INT NOT NULL,
			month INT NOT NULL,
			day INT NOT NULL,
			amount NUMERIC(10,2) NULL,
			version INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			created_by VARCHAR(255) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			updated_by VARCHAR(255) NOT NULL,
			created_by_admin BOOLEAN NOT NULL DEFAULT false,
			modified_by_admin BOOLEAN NOT NULL DEFAULT false,
			UNIQUE (owner_id, key)
		)`,
		`CREATE INDEX IF NOT EXISTS meal_selections_owner_idx ON meal_selections (owner_id)`,
		`CREATE INDEX IF NOT EXISTS meal_selections_key_idx ON meal_selections (key)`,
		`CREATE INDEX IF NOT EXISTS meal_selections_date_idx ON meal_selections (year, month, day)`,

		// -------------------------------
		// PRICES (SINGLETON)
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS meal_prices (
			id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			breakfast NUMERIC(10,2) NOT NULL,
			lunch_veg NUMERIC(10,2) NOT NULL,
			lunch_non_veg NUMERIC(10,2) NOT NULL,
			dinner_veg NUMERIC(10,2) NOT NULL,
			dinner_non_veg NUMERIC(10,2) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_by VARCHAR(255) NULL
		)`,

		// -------------------------------
		// MEAL REQUESTS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS meal_requests (
			id UUID PRIMARY KEY,
			owner_id VARCHAR(255) NOT NULL,
			meal VARCHAR(20) NOT NULL,
			date VARCHAR(10) NOT NULL,
			reason TEXT NULL,
			diet VARCHAR(10) NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			decided_at TIMESTAMPTZ NULL,
			decided_by VARCHAR(255) NULL,
			decision_note TEXT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS meal_requests_owner_idx ON meal_requests (owner_id)`,
		`CREATE INDEX IF NOT EXISTS meal_requests_date_idx ON meal_requests (date)`,
		`CREATE INDEX IF NOT EXISTS meal_requests_status_idx ON meal_requests (status)`,

		// -------------------------------
		// MENU CARD (SINGLETON)
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS menu_cards (
			id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_by VARCHAR(255) NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("[DB] schema initialized")
	return nil
}
