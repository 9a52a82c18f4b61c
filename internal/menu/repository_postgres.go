package menu

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

func (r *PostgresRepository) Get(ctx context.Context) (*Card, error) {
	var c Card
	err := r.db.QueryRow(ctx, `
		SELECT data, updated_at, updated_by
		FROM menu_cards
		WHERE id = 1
	`).Scan(&c.Data, &c.UpdatedAt, &c.UpdatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c *Card) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_cards (id, data, updated_at, updated_by)
		VALUES (1, $1, now(), $2)
		ON CONFLICT (id)
		DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`, []byte(c.Data), c.UpdatedBy)
	return err
}
