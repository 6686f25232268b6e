package storage

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
	"github.com/samber/oops"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return oops.In("storage").Code("MIGRATIONS").Wrapf(err, "set goose dialect")
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return oops.In("storage").Code("MIGRATIONS").Wrapf(err, "apply migrations")
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
// The pool is limited to one connection so ":memory:" databases stay shared.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.In("storage").Code("OPEN").With("dsn", dsn).Wrapf(err, "open database")
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
