// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// dialects maps a database/sql driver name to the goose dialect and the
// embedded directory holding its migrations.
var dialects = map[string]struct {
	dialect string
	dir     string
}{
	"pgx":    {dialect: "postgres", dir: "postgres"},
	"sqlite": {dialect: "sqlite3", dir: "sqlite"},
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies every pending migration for driverName to db.
func Up(ctx context.Context, db *sql.DB, driverName string) error {
	d, ok := dialects[driverName]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driverName)
	}

	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, d.dir); err != nil {
		return fmt.Errorf("apply %s migrations: %w", d.dialect, err)
	}
	return nil
}
