package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

type requestRow struct {
	ID           string `gorm:"primaryKey"`
	OwnerID      string `gorm:"not null;index"`
	Meal         string `gorm:"not null"`
	Date         string `gorm:"not null;index"`
	Reason       *string
	Diet         *string
	Status       string `gorm:"not null;index;default:pending"`
	CreatedAt    time.Time
	DecidedAt    *time.Time
	DecidedBy    *string
	DecisionNote *string
}

func (requestRow) TableName() string { return "meal_requests" }

func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&requestRow{})
}

func (row requestRow) toRequest() *Request {
	r := &Request{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Meal:      meal.Meal(row.Meal),
		Date:      row.Date,
		Status:    Status(row.Status),
		CreatedAt: row.CreatedAt,
		DecidedAt: row.DecidedAt,
	}
	if row.Reason != nil {
		r.Reason = *row.Reason
	}
	if row.Diet != nil {
		d := meal.Diet(*row.Diet)
		r.Diet = &d
	}
	if row.DecidedBy != nil {
		r.DecidedBy = *row.DecidedBy
	}
	if row.DecisionNote != nil {
		r.Note = *row.DecisionNote
	}
	return r
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*Request, error) {
	var row requestRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("request %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toRequest(), nil
}

func (r *GormRepository) Insert(ctx context.Context, req *Request) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	row := requestRow{
		ID:        req.ID,
		OwnerID:   req.OwnerID,
		Meal:      string(req.Meal),
		Date:      req.Date,
		Reason:    nullable(req.Reason),
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
	}
	if req.Diet != nil {
		row.Diet = nullable(string(*req.Diet))
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id string, d Decision) error {
	res := r.db.WithContext(ctx).
		Model(&requestRow{}).
		Where("id = ? AND status = ?", id, string(d.From)).
		Updates(map[string]any{
			"status":        string(d.To),
			"decided_at":    d.At,
			"decided_by":    nullable(d.By),
			"decision_note": nullable(d.Note),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("request %s is %s: %w", id, current.Status, core.ErrConflict)
}

func (r *GormRepository) DeleteByStatus(ctx context.Context, status Status) (int, error) {
	res := r.db.WithContext(ctx).Where("status = ?", string(status)).Delete(&requestRow{})
	return int(res.RowsAffected), res.Error
}

func (r *GormRepository) ListAll(ctx context.Context) ([]*Request, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *GormRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Request, error) {
	return r.find(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (r *GormRepository) find(q *gorm.DB) ([]*Request, error) {
	var rows []requestRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRequest())
	}
	return out, nil
}
