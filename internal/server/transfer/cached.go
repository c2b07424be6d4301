package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

// CachedSource serves ranges from a completed local copy: open, seek to
// start, read sequentially to end.
type CachedSource struct{}

func NewCachedSource() *CachedSource {
	return &CachedSource{}
}

func (s *CachedSource) Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error) {
	f, err := os.Open(entry.LocalPath)
	if err != nil {
		// The registry claims a complete copy exists; a missing or
		// unreadable file is a consistency violation, not a user error.
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrorLocalIO, entry.LocalPath, err)
	}

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: seek %s to %d: %v", common.ErrorLocalIO, entry.LocalPath, start, err)
	}

	return newLimitReadCloser(f, end-start+1), nil
}
