package transfer

import (
	"context"
	"fmt"
	"io"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
	"github.com/abhiramraj725/file-to-link-bot/internal/server/models"
)

// LiveSource proxies bytes straight from the upstream transport. The
// upstream cannot seek, so a non-zero start offset is honored by reading and
// discarding the leading bytes before any response byte is written. That
// keeps 206 responses truthful at the cost of wasted upstream I/O on large
// skips; cached entries do not pay it.
type LiveSource struct {
	upstream Upstream
}

func NewLiveSource(upstream Upstream) *LiveSource {
	return &LiveSource{upstream: upstream}
}

func (s *LiveSource) Open(ctx context.Context, entry *models.LinkEntry, start, end int64) (io.ReadCloser, error) {
	rc, err := s.upstream.FetchStream(ctx, entry.UpstreamRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstreamUnavailable, err)
	}

	if start > 0 {
		if _, err := io.CopyN(io.Discard, rc, start); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("%w: skipping %d bytes: %v", common.ErrorUpstreamUnavailable, start, err)
		}
	}

	return newLimitReadCloser(rc, end-start+1), nil
}
