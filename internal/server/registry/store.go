package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhiramraj725/file-to-link-bot/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// OpenRepository selects the registry store. An empty DSN yields the
// in-memory store (the default: links die with the process); a Postgres DSN
// yields a persistent store with migrations applied. The returned *sql.DB is
// nil for the in-memory case and must be closed by the caller otherwise.
func OpenRepository(ctx context.Context, dsn string) (Repository, *sql.DB, error) {
	if dsn == "" {
		return NewInMemoryRepository(), nil, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return NewPostgresRepository(db), db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
