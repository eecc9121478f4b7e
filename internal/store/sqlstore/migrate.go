package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

//go:embed migrations
var migrationFiles embed.FS

func migrationsFor(db *bun.DB) (*migrate.Migrations, error) {
	dir := "migrations/sqlite"
	if db.Dialect().Name() == dialect.PG {
		dir = "migrations/postgres"
	}

	sub, err := fs.Sub(migrationFiles, dir)
	if err != nil {
		return nil, err
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return nil, fmt.Errorf("discover migrations: %w", err)
	}
	return migrations, nil
}

// Migrate brings the schema up to date. It is safe to call on every startup.
func Migrate(ctx context.Context, db *bun.DB, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	migrations, err := migrationsFor(db)
	if err != nil {
		return err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return wrapErr(err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return wrapErr(err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.Warn("migration unlock failed", "error", err)
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return wrapErr(err)
	}
	if group.IsZero() {
		log.Info("database schema up to date")
		return nil
	}

	log.Info("database migrated", "group", group.ID, "migrations", group.Migrations.String())
	return nil
}
