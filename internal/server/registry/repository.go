// Package registry owns the mapping from public link identifiers to file
// metadata. All mutation goes through the Service; callers only ever hold
// copies of entries.
package registry

import (
	"context"

	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

// Repository stores link entries. Implementations must make InsertIfAbsent
// atomic: two concurrent inserts of the same id yield exactly one stored
// entry, and both callers get it back.
type Repository interface {
	// InsertIfAbsent stores entry unless an entry with the same ID already
	// exists, and returns the stored entry either way.
	InsertIfAbsent(ctx context.Context, entry *models.LinkEntry) (*models.LinkEntry, error)

	// AttachLocalPath publishes the local cache path on an existing entry.
	// Returns common.ErrorNotFound for an unknown id.
	AttachLocalPath(ctx context.Context, id string, path string) error

	// GetByID returns the entry for id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.LinkEntry, error)
}
