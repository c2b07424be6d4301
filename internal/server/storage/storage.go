// Package storage holds the remote object storage backends used when a file
// should live outside this host entirely.
package storage

import "context"

// ObjectStorage uploads a local file and returns a URL the end user can
// download it from.
type ObjectStorage interface {
	Upload(ctx context.Context, localPath string, name string, contentType string) (string, error)
}
