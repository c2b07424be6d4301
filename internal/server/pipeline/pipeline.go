// Package pipeline turns an inbound file event into a public download URL,
// in one of three modes: live proxying, local caching, or re-hosting on
// remote object storage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abhiramraj725/file-to-link-bot/internal/filex"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/storage"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/transport"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultProgressInterval is the minimum spacing between two progress
// notifications for one transfer.
const DefaultProgressInterval = 2 * time.Second

const maxCacheFileName = 64

// ProgressFunc receives throttled transfer progress: bytes written so far
// and the declared total.
type ProgressFunc func(written, total int64)

// linkRegistry is the slice of the registry service the pipeline drives.
type linkRegistry interface {
	Register(ctx context.Context, file models.InboundFile) (*models.LinkEntry, error)
	AttachLocalPath(ctx context.Context, id string, path string) error
}

type Pipeline struct {
	registry         linkRegistry
	transport        transport.Transport
	store            storage.ObjectStorage
	baseURL          string
	downloadDir      string
	progressInterval time.Duration
	log              logging.Logger
	now              func() time.Time

	wg sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Config struct {
	BaseURL          string
	DownloadDir      string
	ProgressInterval time.Duration
}

// NewPipeline builds a pipeline. store may be nil; remote mode then fails
// with an explicit error instead of a panic.
func NewPipeline(cfg Config, reg linkRegistry, tr transport.Transport, store storage.ObjectStorage, log logging.Logger) *Pipeline {
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}
	return &Pipeline{
		registry:         reg,
		transport:        tr,
		store:            store,
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		downloadDir:      cfg.DownloadDir,
		progressInterval: cfg.ProgressInterval,
		log:              log.With("module", "pipeline"),
		now:              time.Now,
		inflight:         make(map[string]struct{}),
	}
}

// Register ingests one inbound file and returns its public URL. The URL is
// available immediately in live and cached modes; cached mode continues
// downloading in the background and publishes the local copy once complete.
// onProgress may be nil; only the cached and remote modes transfer bytes, so
// only they report progress.
func (p *Pipeline) Register(ctx context.Context, file models.InboundFile, mode models.IngestMode, onProgress ProgressFunc) (string, error) {
	switch mode {
	case models.ModeLive, models.ModeCached:
		entry, err := p.registry.Register(ctx, file)
		if err != nil {
			return "", err
		}
		if mode == models.ModeCached && !entry.Cached() {
			p.cacheInBackground(file, entry, onProgress)
		}
		return p.publicURL(entry), nil
	case models.ModeRemote:
		return p.uploadRemote(ctx, file, onProgress)
	default:
		return "", fmt.Errorf("unknown ingest mode %q", mode)
	}
}

// Wait blocks until all background cache downloads have finished. Called on
// shutdown.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) publicURL(entry *models.LinkEntry) string {
	return fmt.Sprintf("%s/dl/%s/%s", p.baseURL, entry.ID, url.PathEscape(entry.FileName))
}

func (p *Pipeline) cachePath(entry *models.LinkEntry) string {
	return filepath.Join(p.downloadDir, entry.ID+"_"+filex.SanitizeName(entry.FileName, maxCacheFileName))
}

// cacheInBackground downloads the file to local disk and publishes the copy
// in the registry. The link already works through live proxying, so a
// failure here degrades service but loses nothing. Re-ingesting an id whose
// download is still running joins the in-flight download instead of starting
// a second one against the same cache path.
func (p *Pipeline) cacheInBackground(file models.InboundFile, entry *models.LinkEntry, onProgress ProgressFunc) {
	p.mu.Lock()
	if _, running := p.inflight[entry.ID]; running {
		p.mu.Unlock()
		return
	}
	p.inflight[entry.ID] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			delete(p.inflight, entry.ID)
			p.mu.Unlock()
		}()

		// Deliberately detached from the inbound request's context: the
		// download outlives the chat interaction that triggered it.
		ctx := context.Background()
		dest := p.cachePath(entry)

		written, err := p.transport.DownloadToLocal(ctx, entry.UpstreamRef, dest,
			p.throttled(onProgress, entry.SizeBytes))
		if err != nil {
			p.log.Error(ctx, "cache download failed", "id", entry.ID, "error", err)
			return
		}

		if err := p.registry.AttachLocalPath(ctx, entry.ID, dest); err != nil {
			p.log.Error(ctx, "publishing local copy failed", "id", entry.ID, "path", dest, "error", err)
			_ = os.Remove(dest)
			return
		}

		if onProgress != nil {
			onProgress(written, entry.SizeBytes)
		}

		p.log.Info(ctx, "file cached", "id", entry.ID, "path", dest, "bytes", written)
	}()
}

// uploadRemote relays the file to the object storage backend through a
// temporary local copy and returns the backend's URL.
func (p *Pipeline) uploadRemote(ctx context.Context, file models.InboundFile, onProgress ProgressFunc) (string, error) {
	if p.store == nil {
		return "", errors.New("remote mode requires an object storage backend")
	}

	tmpDir, err := os.MkdirTemp("", "ingest-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	tmp := filepath.Join(tmpDir, filex.SanitizeName(file.Name, maxCacheFileName))

	if _, err := p.transport.DownloadToLocal(ctx, file.Ref, tmp,
		p.throttled(onProgress, file.Size)); err != nil {
		return "", err
	}

	contentType := file.Mime
	if contentType == "" {
		if mt, err := mimetype.DetectFile(tmp); err == nil {
			contentType = mt.String()
		} else {
			contentType = "application/octet-stream"
		}
	}

	u, err := p.store.Upload(ctx, tmp, file.Name, contentType)
	if err != nil {
		return "", fmt.Errorf("remote upload of %s: %w", file.Name, err)
	}

	p.log.Info(ctx, "file uploaded to remote storage", "name", file.Name, "size", file.Size)

	return u, nil
}

// throttled adapts a ProgressFunc to the transport callback, forwarding at
// most one notification per progress interval.
func (p *Pipeline) throttled(fn ProgressFunc, total int64) transport.ProgressFunc {
	if fn == nil {
		return nil
	}
	var last time.Time
	return func(written int64) {
		t := p.now()
		if !last.IsZero() && t.Sub(last) < p.progressInterval {
			return
		}
		last = t
		fn(written, total)
	}
}
