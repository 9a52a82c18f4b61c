package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/43bits/mess-calender-gec/internal/core"
)

type userRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"not null;default:student"`
	Gender    string
	Hostel    string
	StudyYear string
	Branch    string
	CreatedAt time.Time
	UpdatedAt time.Time
	UpdatedBy string
}

func (userRow) TableName() string { return "users" }

func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{})
}

func (row userRow) toUser() *User {
	return &User{
		ID:       row.ID,
		Name:     row.Name,
		Email:    row.Email,
		Password: row.Password,
		Role:     row.Role,
		Profile: Profile{
			Gender: row.Gender,
			Hostel: row.Hostel,
			Year:   row.StudyYear,
			Branch: row.Branch,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		UpdatedBy: row.UpdatedBy,
	}
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Save(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	row := userRow{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Role:     user.Role,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userRow{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) first(ctx context.Context, cond, arg string) (*User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where(cond, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", arg, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toUser(), nil
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

func (r *GormUserRepository) List(ctx context.Context) ([]*User, error) {
	return r.find(r.db.WithContext(ctx).Order("name"))
}

func (r *GormUserRepository) find(q *gorm.DB) ([]*User, error) {
	var rows []userRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toUser())
	}
	return out, nil
}

func (r *GormUserRepository) UpdateRole(ctx context.Context, id, role, updatedBy string) error {
	return r.update(ctx, id, map[string]any{"role": role, "updated_by": updatedBy})
}

func (r *GormUserRepository) UpdateProfile(ctx context.Context, id string, p Profile) error {
	return r.update(ctx, id, map[string]any{
		"gender":     p.Gender,
		"hostel":     p.Hostel,
		"study_year": p.Year,
		"branch":     p.Branch,
	})
}

func (r *GormUserRepository) update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return nil
}
