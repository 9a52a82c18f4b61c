package app

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/43bits/mess-calender-gec/internal/auth"
	"github.com/43bits/mess-calender-gec/internal/config"
	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/db"
	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/menu"
	"github.com/43bits/mess-calender-gec/internal/pricing"
	"github.com/43bits/mess-calender-gec/internal/realtime"
	"github.com/43bits/mess-calender-gec/internal/requests"
	"github.com/43bits/mess-calender-gec/internal/router"
	"github.com/43bits/mess-calender-gec/internal/settlement"
	"github.com/43bits/mess-calender-gec/internal/statement"
	"github.com/43bits/mess-calender-gec/internal/storage"
)

// SystemAdmin is the identity background jobs act as.
var SystemAdmin = core.Caller{ID: core.SystemActor, Role: core.RoleAdmin}

// App holds the wired services for one process.
type App struct {
	Config *config.Config
	Hub    *realtime.Hub

	Auth       *auth.Service
	Prices     *pricing.Service
	Selections *ledger.Service
	Settlement *settlement.Service
	Requests   *requests.Service
	Menu       *menu.Service
	Statements *statement.Service

	close func()
}

type stores struct {
	users    auth.UserRepository
	prices   pricing.Repository
	ledger   ledger.Repository
	requests requests.Repository
	menu     menu.Repository
	tx       requests.Transactor
}

// New opens the configured store and builds every service on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	auth.SetSecret(cfg.JWTSecret)
	hub := realtime.NewHub()

	authService := auth.NewService(st.users)
	if err := authService.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		closeStores()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	prices := pricing.NewService(st.prices, hub)

	var uploader statement.Uploader
	if cfg.Storage.Enabled() {
		r2, err := storage.NewR2Client(ctx, cfg.Storage)
		if err != nil {
			closeStores()
			return nil, fmt.Errorf("r2 init: %w", err)
		}
		uploader = r2
	} else {
		log.Println("[APP] R2 storage not configured, statement export disabled")
	}

	return &App{
		Config:     cfg,
		Hub:        hub,
		Auth:       authService,
		Prices:     prices,
		Selections: ledger.NewService(st.ledger, prices, hub),
		Settlement: settlement.NewService(st.ledger),
		Requests:   requests.NewService(st.requests, st.tx, authService, hub),
		Menu:       menu.NewService(st.menu, hub),
		Statements: statement.NewService(st.ledger, uploader),
		close:      closeStores,
	}, nil
}

func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Router mounts every handler.
func (a *App) Router() *gin.Engine {
	return router.NewRouter(router.Handlers{
		Auth:       auth.NewHandler(a.Auth),
		Prices:     pricing.NewHandler(a.Prices),
		Selections: ledger.NewHandler(a.Selections),
		Settlement: settlement.NewHandler(a.Settlement),
		Requests:   requests.NewHandler(a.Requests),
		Menu:       menu.NewHandler(a.Menu),
		Statements: statement.NewHandler(a.Statements),
		Realtime:   realtime.NewHandler(a.Hub, a.Config.AllowedOrigins),
	}, a.Auth, a.Config.AllowedOrigins)
}

var gormMigrations = []db.Migrator{
	auth.MigrateGorm,
	pricing.MigrateGorm,
	ledger.MigrateGorm,
	requests.MigrateGorm,
	menu.MigrateGorm,
}

func openStores(ctx context.Context, cfg *config.Config) (stores, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Println("[APP] using in-memory store; data is lost on exit")
		st := stores{
			users:    auth.NewInMemoryUserRepository(),
			prices:   pricing.NewInMemoryRepository(),
			ledger:   ledger.NewInMemoryRepository(),
			requests: requests.NewInMemoryRepository(),
			menu:     menu.NewInMemoryRepository(),
		}
		st.tx = requests.NewMemoryTransactor(requests.Stores{
			Ledger:   st.ledger,
			Requests: st.requests,
			Prices:   st.prices,
		})
		return st, func() {}, nil

	case config.DriverSQLite, config.DriverGormPostgres:
		var (
			gdb *gorm.DB
			err error
		)
		if cfg.DBDriver == config.DriverSQLite {
			gdb, err = db.ConnectSQLite(cfg.SQLitePath, gormMigrations...)
		} else {
			gdb, err = db.ConnectGormPostgres(cfg.DatabaseURL, gormMigrations...)
		}
		if err != nil {
			return stores{}, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return stores{
			users:    auth.NewGormUserRepository(gdb),
			prices:   pricing.NewGormRepository(gdb),
			ledger:   ledger.NewGormRepository(gdb),
			requests: requests.NewGormRepository(gdb),
			menu:     menu.NewGormRepository(gdb),
			tx:       requests.NewGormTransactor(gdb),
		}, closeFn, nil

	case config.DriverPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return stores{}, nil, err
		}
		return stores{
			users:    auth.NewPostgresUserRepository(pool),
			prices:   pricing.NewPostgresRepository(pool),
			ledger:   ledger.NewPostgresRepository(pool),
			requests: requests.NewPostgresRepository(pool),
			menu:     menu.NewPostgresRepository(pool),
			tx:       requests.NewPostgresTransactor(pool),
		}, pool.Close, nil
	}

	return stores{}, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
