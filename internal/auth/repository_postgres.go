package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/db"
)

type PostgresUserRepository struct {
	db db.DBTX
}

func NewPostgresUserRepository(conn db.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: conn}
}

const userColumns = `
	id::text, name, email, password, role,
	gender, hostel, study_year, branch,
	created_at, updated_at, updated_by`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u                                User
		gender, hostel, year, branch, by *string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&gender, &hostel, &year, &branch,
		&u.CreatedAt, &u.UpdatedAt, &by,
	)
	if err != nil {
		return nil, err
	}

	u.Profile = Profile{
		Gender: deref(gender),
		Hostel: deref(hostel),
		Year:   deref(year),
		Branch: deref(branch),
	}
	u.UpdatedBy = deref(by)
	return &u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Password, user.Role,
	)
	return err
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT 1 FROM users WHERE email=$1 LIMIT 1`
	row := r.db.QueryRow(ctx, query, email)

	var exists int
	err := row.Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT`+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, `SELECT`+userColumns+` FROM users WHERE id::text=$1`, id)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query, arg string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", arg, core.ErrNotFound)
	}
	return u, err
}

func (r *PostgresUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.query(ctx, `SELECT`+userColumns+` FROM users WHERE id::text = ANY($1)`, ids)
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]*User, error) {
	return r.query(ctx, `SELECT`+userColumns+` FROM users ORDER BY name`)
}

func (r *PostgresUserRepository) query(ctx context.Context, sql string, args ...any) ([]*User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --------------------------------------------------
// Role & profile updates
// --------------------------------------------------

func (r *PostgresUserRepository) UpdateRole(ctx context.Context, id, role, updatedBy string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE users
		SET role = $1, updated_by = $2, updated_at = now()
		WHERE id::text = $3
	`, role, updatedBy, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id string, p Profile) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE users
		SET gender = $1, hostel = $2, study_year = $3, branch = $4, updated_at = now()
		WHERE id::text = $5
	`, p.Gender, p.Hostel, p.Year, p.Branch, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return nil
}
