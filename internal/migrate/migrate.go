// Package migrate applies the embedded SQL migrations.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/JonMunkholm/usersvc/internal/config"
	"github.com/JonMunkholm/usersvc/migrations"
)

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// dialects maps a store driver to its goose dialect.
var dialects = map[string]string{
	config.DriverPostgres: "postgres",
	config.DriverSQLite:   "sqlite3",
}

// Up runs all pending migrations for driver against db.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return withGoose(driver, func() error {
		return goose.UpContext(ctx, db, ".")
	})
}

// UpDSN opens a PostgreSQL connection for dsn and runs all pending migrations.
func UpDSN(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return Up(ctx, db, config.DriverPostgres)
}

// Version returns the current schema version of db.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	var version int64
	err := withGoose(driver, func() error {
		var err error
		version, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return version, err
}

func withGoose(driver string, fn func() error) error {
	dialect, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("migrate: unknown driver %q", driver)
	}

	sub, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(sub)
	goose.SetLogger(slogLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := fn(); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	return nil
}

// slogLogger routes goose output through the default slog logger.
type slogLogger struct{}

func (slogLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (slogLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
	os.Exit(1)
}
