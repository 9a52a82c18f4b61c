package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const entryColumns = `
	id, owner_id, key, meal, diet, year, month, day, amount, version,
	created_at, created_by, updated_at, updated_by,
	created_by_admin, modified_by_admin`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Key,
		&e.Meal,
		&e.Diet,
		&e.Year,
		&e.Month,
		&e.Day,
		&e.Amount,
		&e.Version,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.UpdatedAt,
		&e.UpdatedBy,
		&e.CreatedByAdmin,
		&e.ModifiedByAdmin,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// --------------------------------------------------
// Point lookup by (owner, key)
// --------------------------------------------------
func (r *PostgresRepository) FindByKey(ctx context.Context, ownerID, key string) (*Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, `
		SELECT`+entryColumns+`
		FROM meal_selections
		WHERE owner_id = $1 AND key = $2
	`, ownerID, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("selection %s: %w", key, core.ErrNotFound)
	}
	return e, err
}

// --------------------------------------------------
// Insert (collapses into an update on a concurrent insert)
// --------------------------------------------------
func (r *PostgresRepository) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	saved, err := scanEntry(r.db.QueryRow(ctx, `
		INSERT INTO meal_selections (
			id, owner_id, key, meal, diet, year, month, day, amount, version,
			created_at, created_by, updated_at, updated_by,
			created_by_admin, modified_by_admin
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,1,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (owner_id, key)
		DO UPDATE SET
			diet = EXCLUDED.diet,
			amount = EXCLUDED.amount,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by,
			modified_by_admin = EXCLUDED.modified_by_admin,
			version = meal_selections.version + 1
		RETURNING`+entryColumns,
		e.ID,
		e.OwnerID,
		e.Key,
		e.Meal,
		e.Diet,
		e.Year,
		e.Month,
		e.Day,
		e.Amount,
		e.CreatedAt,
		e.CreatedBy,
		e.UpdatedAt,
		e.UpdatedBy,
		e.CreatedByAdmin,
		e.ModifiedByAdmin,
	))
	if err != nil {
		return err
	}
	*e = *saved
	return nil
}

// --------------------------------------------------
// Patch type / amount / attribution
// --------------------------------------------------
func (r *PostgresRepository) Patch(ctx context.Context, e *Entry, expectedVersion int) error {
	saved, err := scanEntry(r.db.QueryRow(ctx, `
		UPDATE meal_selections
		SET diet = $2,
		    amount = $3,
		    updated_at = $4,
		    updated_by = $5,
		    modified_by_admin = $6,
		    version = version + 1
		WHERE id = $1
		  AND ($7 = 0 OR version = $7)
		RETURNING`+entryColumns,
		e.ID,
		e.Diet,
		e.Amount,
		e.UpdatedAt,
		e.UpdatedBy,
		e.ModifiedByAdmin,
		expectedVersion,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		if expectedVersion != AnyVersion {
			return fmt.Errorf("selection %s changed: %w", e.Key, core.ErrConflict)
		}
		return fmt.Errorf("selection %s: %w", e.Key, core.ErrNotFound)
	}
	if err != nil {
		return err
	}
	*e = *saved
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	cmd, err := r.db.Exec(ctx, `
		DELETE FROM meal_selections
		WHERE id = $1
		  AND ($2 = 0 OR version = $2)
	`, id, expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 && expectedVersion != AnyVersion {
		return fmt.Errorf("selection %s changed: %w", id, core.ErrConflict)
	}
	return nil
}

// --------------------------------------------------
// Range scans
// --------------------------------------------------
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error) {
	return r.query(ctx, `
		SELECT`+entryColumns+`
		FROM meal_selections
		WHERE owner_id = $1
		ORDER BY key
	`, ownerID)
}

func (r *PostgresRepository) ListByDate(ctx context.Context, q DateQuery) ([]*Entry, error) {
	return r.query(ctx, `
		SELECT`+entryColumns+`
		FROM meal_selections
		WHERE year = $1
		  AND ($2 = 0 OR month = $2)
		  AND ($3 = 0 OR day = $3)
		ORDER BY month, day, owner_id
	`, q.Year, q.Month, q.Day)
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
