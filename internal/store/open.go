// Package store opens the configured core.Store backend.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JonMunkholm/usersvc/internal/config"
	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/migrate"
	"github.com/JonMunkholm/usersvc/internal/store/postgres"
	sqlitestore "github.com/JonMunkholm/usersvc/internal/store/sqlite"
)

// Open connects the backend selected by cfg.Driver and, when
// cfg.AutoMigrate is set, brings its schema up to date. The returned func
// releases the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := migrate.UpDSN(ctx, cfg.URL); err != nil {
				return nil, nil, err
			}
		}
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserStore(db), db.Close, nil

	case config.DriverSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := migrate.Up(ctx, s.DB(), config.DriverSQLite); err != nil {
				_ = s.Close()
				return nil, nil, err
			}
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Migrate applies pending migrations for the configured backend and returns
// the resulting schema version.
func Migrate(ctx context.Context, cfg config.DatabaseConfig) (int64, error) {
	var db *sql.DB

	switch cfg.Driver {
	case config.DriverPostgres:
		var err error
		db, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return 0, fmt.Errorf("open database: %w", err)
		}
	case config.DriverSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return 0, err
		}
		db = s.DB()
	default:
		return 0, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	defer db.Close()

	if err := migrate.Up(ctx, db, cfg.Driver); err != nil {
		return 0, err
	}
	return migrate.Version(ctx, db, cfg.Driver)
}
