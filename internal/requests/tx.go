package requests

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/pricing"
)

// Stores are the repositories an approval touches, bound to one transaction.
type Stores struct {
	Ledger   ledger.Repository
	Requests Repository
	Prices   pricing.Repository
}

// Transactor runs fn inside a single transaction. A non-nil error from fn
// rolls the transaction back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}

// --------------------------------------------------
// PostgreSQL
// --------------------------------------------------

type PostgresTransactor struct {
	pool *pgxpool.Pool
}

func NewPostgresTransactor(pool *pgxpool.Pool) *PostgresTransactor {
	return &PostgresTransactor{pool: pool}
}

func (t *PostgresTransactor) WithinTx(ctx context.Context, fn func(Stores) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stores := Stores{
		Ledger:   ledger.NewPostgresRepository(tx),
		Requests: NewPostgresRepository(tx),
		Prices:   pricing.NewPostgresRepository(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// --------------------------------------------------
// GORM
// --------------------------------------------------

type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithinTx(ctx context.Context, fn func(Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Stores{
			Ledger:   ledger.NewGormRepository(tx),
			Requests: NewGormRepository(tx),
			Prices:   pricing.NewGormRepository(tx),
		})
	})
}

// --------------------------------------------------
// In-memory
// --------------------------------------------------

// MemoryTransactor serializes transactional work. It does not undo writes
// made before fn fails.
type MemoryTransactor struct {
	mu     sync.Mutex
	stores Stores
}

func NewMemoryTransactor(stores Stores) *MemoryTransactor {
	return &MemoryTransactor{stores: stores}
}

func (t *MemoryTransactor) WithinTx(ctx context.Context, fn func(Stores) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.stores)
}
