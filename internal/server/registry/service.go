package registry

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/hashx"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

const defaultMimeType = "application/octet-stream"

// Service is the link registry facade. It derives identifiers, applies
// metadata defaults and enforces publish-after-complete on local paths.
type Service struct {
	repo Repository
	log  logging.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("module", "registry"),
		now:  time.Now,
	}
}

// Register creates a link entry for the inbound file, or returns the
// existing one if the same upstream reference was registered before.
// Re-registering never overwrites metadata of the stored entry.
func (s *Service) Register(ctx context.Context, file models.InboundFile) (*models.LinkEntry, error) {
	mime := file.Mime
	if mime == "" {
		mime = defaultMimeType
	}

	entry := &models.LinkEntry{
		ID:          hashx.Derive(file.Ref),
		FileName:    file.Name,
		SizeBytes:   file.Size,
		MimeType:    mime,
		UpstreamRef: file.Ref,
		CreatedAt:   s.now(),
	}

	stored, err := s.repo.InsertIfAbsent(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("registering link: %w", err)
	}

	s.log.Debug(ctx, "link registered", "id", stored.ID, "name", stored.FileName, "size", stored.SizeBytes)
	return stored, nil
}

// AttachLocalPath publishes a completed local copy for the entry. The file
// at path must already hold exactly the entry's declared size; a mismatch
// means the download is incomplete or corrupt, and the path is not
// published.
func (s *Service) AttachLocalPath(ctx context.Context, id string, path string) error {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", common.ErrorLocalIO, path, err)
	}
	if fi.Size() != entry.SizeBytes {
		return fmt.Errorf("%w: %s holds %d bytes, expected %d",
			common.ErrorLocalIO, path, fi.Size(), entry.SizeBytes)
	}

	if err := s.repo.AttachLocalPath(ctx, id, path); err != nil {
		return err
	}

	s.log.Info(ctx, "local copy published", "id", id, "path", path)
	return nil
}

// Lookup returns the entry for a public identifier.
func (s *Service) Lookup(ctx context.Context, id string) (*models.LinkEntry, error) {
	return s.repo.GetByID(ctx, id)
}
