// Package transfer abstracts where a link's bytes come from: a completed
// local cache file, or a live stream proxied from the upstream transport.
package transfer

import (
	"context"
	"io"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

// DefaultChunkSize bounds the copy buffer used while streaming a response
// body, so one slow client never pins more than ~1 MiB.
const DefaultChunkSize = 1 << 20

// Upstream is the part of the transport capability needed for live
// proxying: an ordered byte stream covering the file from offset 0.
type Upstream interface {
	FetchStream(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Source opens the inclusive byte range [start, end] of a registered file.
// The returned reader yields exactly end-start+1 bytes, is forward-only and
// single-use; it must be closed once, including on a failed response write.
type Source interface {
	Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error)
}

// Selector picks the variant per request from registry state: a published
// local copy wins, otherwise the range is proxied live from the upstream.
type Selector struct {
	cached  *CachedSource
	live    *LiveSource
	hasLive bool
}

// NewSelector builds a Selector. upstream may be nil when no transport is
// connected; entries without a local copy then report not-ready instead of
// not-found.
func NewSelector(upstream Upstream) *Selector {
	s := &Selector{cached: NewCachedSource()}
	if upstream != nil {
		s.live = NewLiveSource(upstream)
		s.hasLive = true
	}
	return s
}

func (s *Selector) Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error) {
	if entry.Cached() {
		return s.cached.Open(ctx, entry, start, end)
	}
	if !s.hasLive {
		return nil, common.ErrorNotReady
	}
	return s.live.Open(ctx, entry, start, end)
}

// limitReadCloser caps reads at n bytes but closes the full underlying
// stream.
type limitReadCloser struct {
	r io.Reader
	c io.Closer
}

func newLimitReadCloser(rc io.ReadCloser, n int64) io.ReadCloser {
	return &limitReadCloser{r: io.LimitReader(rc, n), c: rc}
}

func (l *limitReadCloser) Read(p []byte) (int, error) { return l.r.Read(p) }
func (l *limitReadCloser) Close() error               { return l.c.Close() }
