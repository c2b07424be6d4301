package registry

import (
	"context"
	"sync"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

// InMemoryRepository is the default, single-process registry store. The
// mutex is held only for map access, never across I/O, so lookups are not
// blocked behind downloads. All links are lost on restart.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]models.LinkEntry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]models.LinkEntry)}
}

func (r *InMemoryRepository) InsertIfAbsent(ctx context.Context, entry *models.LinkEntry) (*models.LinkEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[entry.ID]; ok {
		e := existing
		return &e, nil
	}

	r.entries[entry.ID] = *entry
	e := *entry
	return &e, nil
}

func (r *InMemoryRepository) AttachLocalPath(ctx context.Context, id string, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return common.ErrorNotFound
	}

	entry.LocalPath = path
	r.entries[id] = entry
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.LinkEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	e := entry
	return &e, nil
}
