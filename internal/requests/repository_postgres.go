package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/db"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

type PostgresRepository struct {
	db db.DBTX
}

func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const requestColumns = `
	id, owner_id, meal, date, reason, diet, status,
	created_at, decided_at, decided_by, decision_note`

func scanRequest(row pgx.Row) (*Request, error) {
	var (
		r                      Request
		reason, diet, by, note *string
	)
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Meal,
		&r.Date,
		&reason,
		&diet,
		&r.Status,
		&r.CreatedAt,
		&r.DecidedAt,
		&by,
		&note,
	)
	if err != nil {
		return nil, err
	}

	if reason != nil {
		r.Reason = *reason
	}
	if diet != nil {
		d := meal.Diet(*diet)
		r.Diet = &d
	}
	if by != nil {
		r.DecidedBy = *by
	}
	if note != nil {
		r.Note = *note
	}
	return &r, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Request, error) {
	req, err := scanRequest(r.db.QueryRow(ctx, `
		SELECT`+requestColumns+`
		FROM meal_requests
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, core.ErrNotFound)
	}
	return req, err
}

func (r *PostgresRepository) Insert(ctx context.Context, req *Request) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	var diet *string
	if req.Diet != nil {
		diet = nullable(string(*req.Diet))
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO meal_requests (id, owner_id, meal, date, reason, diet, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		req.ID,
		req.OwnerID,
		req.Meal,
		req.Date,
		nullable(req.Reason),
		diet,
		req.Status,
		req.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, d Decision) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE meal_requests
		SET status = $3,
		    decided_at = $4,
		    decided_by = $5,
		    decision_note = $6
		WHERE id = $1 AND status = $2
	`, id, d.From, d.To, d.At, nullable(d.By), nullable(d.Note))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	// Tell a missing request apart from one in the wrong state.
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("request %s is %s: %w", id, current.Status, core.ErrConflict)
}

func (r *PostgresRepository) DeleteByStatus(ctx context.Context, status Status) (int, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM meal_requests WHERE status = $1`, status)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Request, error) {
	return r.query(ctx, `
		SELECT`+requestColumns+`
		FROM meal_requests
		ORDER BY created_at DESC
	`)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Request, error) {
	return r.query(ctx, `
		SELECT`+requestColumns+`
		FROM meal_requests
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]*Request, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
