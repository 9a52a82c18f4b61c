package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/43bits/mess-calender-gec/internal/db"
)

type PostgresRepository struct {
	db db.DBTX
}

func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

func (r *PostgresRepository) Get(ctx context.Context) (*Table, error) {
	var t Table
	var updatedBy *string

	err := r.db.QueryRow(ctx, `
		SELECT breakfast, lunch_veg, lunch_non_veg, dinner_veg, dinner_non_veg,
		       updated_at, updated_by
		FROM meal_prices
		WHERE id = 1
	`).Scan(
		&t.Breakfast,
		&t.LunchVeg,
		&t.LunchNonVeg,
		&t.DinnerVeg,
		&t.DinnerNonVeg,
		&t.UpdatedAt,
		&updatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if updatedBy != nil {
		t.UpdatedBy = *updatedBy
	}
	return &t, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, t *Table) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO meal_prices (
			id, breakfast, lunch_veg, lunch_non_veg, dinner_veg, dinner_non_veg,
			updated_at, updated_by
		)
		VALUES (1, $1, $2, $3, $4, $5, now(), $6)
		ON CONFLICT (id)
		DO UPDATE SET
			breakfast = EXCLUDED.breakfast,
			lunch_veg = EXCLUDED.lunch_veg,
			lunch_non_veg = EXCLUDED.lunch_non_veg,
			dinner_veg = EXCLUDED.dinner_veg,
			dinner_non_veg = EXCLUDED.dinner_non_veg,
			updated_at = now(),
			updated_by = EXCLUDED.updated_by
	`,
		t.Breakfast,
		t.LunchVeg,
		t.LunchNonVeg,
		t.DinnerVeg,
		t.DinnerNonVeg,
		t.UpdatedBy,
	)
	return err
}
