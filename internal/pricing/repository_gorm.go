package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type priceRow struct {
	ID           uint            `gorm:"primaryKey"`
	Breakfast    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LunchVeg     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LunchNonVeg  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DinnerVeg    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DinnerNonVeg decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UpdatedAt    time.Time
	UpdatedBy    string
}

func (priceRow) TableName() string { return "meal_prices" }

func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&priceRow{})
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Get(ctx context.Context) (*Table, error) {
	var row priceRow
	err := r.db.WithContext(ctx).First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	updatedAt := row.UpdatedAt
	return &Table{
		Breakfast:    row.Breakfast,
		LunchVeg:     row.LunchVeg,
		LunchNonVeg:  row.LunchNonVeg,
		DinnerVeg:    row.DinnerVeg,
		DinnerNonVeg: row.DinnerNonVeg,
		UpdatedAt:    &updatedAt,
		UpdatedBy:    row.UpdatedBy,
	}, nil
}

func (r *GormRepository) Upsert(ctx context.Context, t *Table) error {
	row := priceRow{
		ID:           1,
		Breakfast:    t.Breakfast,
		LunchVeg:     t.LunchVeg,
		LunchNonVeg:  t.LunchNonVeg,
		DinnerVeg:    t.DinnerVeg,
		DinnerNonVeg: t.DinnerNonVeg,
		UpdatedAt:    time.Now().UTC(),
		UpdatedBy:    t.UpdatedBy,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}
