package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

type entryRow struct {
	ID              string              `gorm:"primaryKey"`
	OwnerID         string              `gorm:"not null;uniqueIndex:idx_selection_owner_key;index"`
	Key             string              `gorm:"not null;uniqueIndex:idx_selection_owner_key"`
	Meal            string              `gorm:"not null"`
	Diet            string              `gorm:"not null"`
	Year            int                 `gorm:"index:idx_selection_date"`
	Month           int                 `gorm:"index:idx_selection_date"`
	Day             int                 `gorm:"index:idx_selection_date"`
	Amount          decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	Version         int                 `gorm:"not null;default:1"`
	CreatedAt       time.Time
	CreatedBy       string
	UpdatedAt       time.Time
	UpdatedBy       string
	CreatedByAdmin  bool
	ModifiedByAdmin bool
}

func (entryRow) TableName() string { return "meal_selections" }

func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&entryRow{})
}

func toRow(e *Entry) entryRow {
	return entryRow{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		Key:             e.Key,
		Meal:            string(e.Meal),
		Diet:            string(e.Diet),
		Year:            e.Year,
		Month:           e.Month,
		Day:             e.Day,
		Amount:          e.Amount,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		UpdatedAt:       e.UpdatedAt,
		UpdatedBy:       e.UpdatedBy,
		CreatedByAdmin:  e.CreatedByAdmin,
		ModifiedByAdmin: e.ModifiedByAdmin,
	}
}

func (r entryRow) toEntry() *Entry {
	return &Entry{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		Key:             r.Key,
		Meal:            meal.Meal(r.Meal),
		Diet:            meal.Diet(r.Diet),
		Year:            r.Year,
		Month:           r.Month,
		Day:             r.Day,
		Amount:          r.Amount,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		CreatedBy:       r.CreatedBy,
		UpdatedAt:       r.UpdatedAt,
		UpdatedBy:       r.UpdatedBy,
		CreatedByAdmin:  r.CreatedByAdmin,
		ModifiedByAdmin: r.ModifiedByAdmin,
	}
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByKey(ctx context.Context, ownerID, key string) (*Entry, error) {
	var row entryRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND key = ?", ownerID, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("selection %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toEntry(), nil
}

func (r *GormRepository) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	row := toRow(e)
	row.Version = 1

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"diet":              row.Diet,
				"amount":            row.Amount,
				"updated_at":        row.UpdatedAt,
				"updated_by":        row.UpdatedBy,
				"modified_by_admin": row.ModifiedByAdmin,
				"version":           gorm.Expr("meal_selections.version + 1"),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return err
	}

	// The conflict path keeps the original id, so re-read the slot.
	saved, err := r.FindByKey(ctx, e.OwnerID, e.Key)
	if err != nil {
		return err
	}
	*e = *saved
	return nil
}

func (r *GormRepository) Patch(ctx context.Context, e *Entry, expectedVersion int) error {
	q := r.db.WithContext(ctx).Model(&entryRow{}).Where("id = ?", e.ID)
	if expectedVersion != AnyVersion {
		q = q.Where("version = ?", expectedVersion)
	}

	res := q.Updates(map[string]any{
		"diet":              string(e.Diet),
		"amount":            e.Amount,
		"updated_at":        e.UpdatedAt,
		"updated_by":        e.UpdatedBy,
		"modified_by_admin": e.ModifiedByAdmin,
		"version":           gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if expectedVersion != AnyVersion {
			return fmt.Errorf("selection %s changed: %w", e.Key, core.ErrConflict)
		}
		return fmt.Errorf("selection %s: %w", e.Key, core.ErrNotFound)
	}

	var row entryRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", e.ID).Error; err != nil {
		return err
	}
	*e = *row.toEntry()
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if expectedVersion != AnyVersion {
		q = q.Where("version = ?", expectedVersion)
	}
	res := q.Delete(&entryRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 && expectedVersion != AnyVersion {
		return fmt.Errorf("selection %s changed: %w", id, core.ErrConflict)
	}
	return nil
}

func (r *GormRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error) {
	var rows []entryRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("key").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func (r *GormRepository) ListByDate(ctx context.Context, dq DateQuery) ([]*Entry, error) {
	q := r.db.WithContext(ctx).Where("year = ?", dq.Year)
	if dq.Month != 0 {
		q = q.Where("month = ?", dq.Month)
	}
	if dq.Day != 0 {
		q = q.Where("day = ?", dq.Day)
	}

	var rows []entryRow
	if err := q.Order("month, day, owner_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func toEntries(rows []entryRow) []*Entry {
	out := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntry())
	}
	return out
}
