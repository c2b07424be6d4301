package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/abhiramraj725/file-to-link-bot/internal/filex"
	"github.com/abhiramraj725/file-to-link-bot/internal/logging"
)

// fileURLResolver is the slice of the bot API client we need: exchanging a
// file id for a direct download URL. *tgbotapi.BotAPI satisfies it.
type fileURLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// TelegramTransport fetches file content through the Telegram bot API: the
// file id is resolved to a direct URL, then streamed over plain HTTP.
type TelegramTransport struct {
	resolver fileURLResolver
	client   *http.Client
	log      logging.Logger
}

func NewTelegramTransport(resolver fileURLResolver, log logging.Logger) *TelegramTransport {
	return &TelegramTransport{
		resolver: resolver,
		client:   &http.Client{},
		log:      log.With("module", "transport"),
	}
}

func (t *TelegramTransport) FetchStream(ctx context.Context, ref string) (io.ReadCloser, error) {
	url, err := t.resolver.GetFileDirectURL(ref)
	if err != nil {
		return nil, fmt.Errorf("resolving file %s: %w", ref, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching file %s: %w", ref, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetching file %s: unexpected status %s", ref, resp.Status)
	}

	return resp.Body, nil
}

func (t *TelegramTransport) DownloadToLocal(ctx context.Context, ref string, dest string, onProgress ProgressFunc) (int64, error) {
	rc, err := t.FetchStream(ctx, ref)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	if err := filex.EnsureDir(filepath.Dir(dest)); err != nil {
		return 0, err
	}

	// The bytes land in a temp file first and move to dest in one rename.
	// dest therefore only ever holds a complete copy: a failed or
	// concurrent download can never truncate a file already published at
	// that path.
	f, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return 0, err
	}
	tmp := f.Name()

	written, err := io.Copy(&progressWriter{w: f, onProgress: onProgress}, rc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return written, fmt.Errorf("downloading file %s: %w", ref, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return written, fmt.Errorf("downloading file %s: %w", ref, err)
	}

	t.log.Debug(ctx, "download complete", "ref", ref, "dest", dest, "bytes", written)

	return written, nil
}

// progressWriter reports the running byte count after every write.
type progressWriter struct {
	w          io.Writer
	written    int64
	onProgress ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.onProgress != nil && n > 0 {
		p.onProgress(p.written)
	}
	return n, err
}
