package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cardRow struct {
	ID        uint           `gorm:"primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
	UpdatedBy string
}

func (cardRow) TableName() string { return "menu_cards" }

func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&cardRow{})
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Get(ctx context.Context) (*Card, error) {
	var row cardRow
	err := r.db.WithContext(ctx).First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	updatedAt := row.UpdatedAt
	return &Card{
		Data:      json.RawMessage(row.Data),
		UpdatedAt: &updatedAt,
		UpdatedBy: row.UpdatedBy,
	}, nil
}

func (r *GormRepository) Upsert(ctx context.Context, c *Card) error {
	row := cardRow{
		ID:        1,
		Data:      datatypes.JSON(c.Data),
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: c.UpdatedBy,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}
