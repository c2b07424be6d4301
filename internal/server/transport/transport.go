// Package transport moves file bytes between the upstream chat platform and
// this host.
package transport

import (
	"context"
	"io"
)

// ProgressFunc receives the number of bytes transferred so far. Callers
// decide how often to surface it.
type ProgressFunc func(written int64)

// Transport is the full upstream capability: live streaming for proxied
// downloads and a to-disk transfer for the caching pipeline.
type Transport interface {
	// FetchStream opens an ordered byte stream of the referenced file,
	// starting at offset 0.
	FetchStream(ctx context.Context, ref string) (io.ReadCloser, error)

	// DownloadToLocal copies the referenced file to dest, creating parent
	// directories as needed. onProgress may be nil. Returns the number of
	// bytes written.
	DownloadToLocal(ctx context.Context, ref string, dest string, onProgress ProgressFunc) (int64, error)
}
