package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/dbx"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

// PostgresRepository persists link entries across restarts. The insert uses
// ON CONFLICT DO NOTHING plus a re-select, which gives the same
// insert-if-absent semantics as the in-memory map without any advisory
// locking.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, entry *models.LinkEntry) (*models.LinkEntry, error) {

	query :=
		`INSERT INTO links (id, file_name, size_bytes, mime_type, upstream_ref, local_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
		`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.FileName, entry.SizeBytes, entry.MimeType, entry.UpstreamRef, entry.LocalPath, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, entry.ID)
}

func (r *PostgresRepository) AttachLocalPath(ctx context.Context, id string, path string) error {

	query := `UPDATE links SET local_path = $2 WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, query, id, path)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.LinkEntry, error) {

	query := `SELECT id, file_name, size_bytes, mime_type, upstream_ref, local_path, created_at
		FROM links WHERE id = $1;`

	var entry models.LinkEntry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.FileName, &entry.SizeBytes, &entry.MimeType, &entry.UpstreamRef, &entry.LocalPath, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select link: %w", err)
	}

	return &entry, nil
}
