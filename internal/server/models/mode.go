package models

import "fmt"

// IngestMode selects what happens to a file after registration.
type IngestMode string

const (
	// ModeLive registers the link and proxies bytes straight from the
	// upstream on every download.
	ModeLive IngestMode = "live"

	// ModeCached registers the link, returns the URL immediately and
	// downloads a local copy in the background. Until the copy is complete
	// downloads are proxied live.
	ModeCached IngestMode = "cached"

	// ModeRemote downloads the file and hands it to an object-storage
	// backend; the reply carries the backend's URL instead of a local link.
	ModeRemote IngestMode = "remote"
)

// ParseIngestMode validates a configuration string.
func ParseIngestMode(s string) (IngestMode, error) {
	switch IngestMode(s) {
	case ModeLive, ModeCached, ModeRemote:
		return IngestMode(s), nil
	default:
		return "", fmt.Errorf("unknown ingest mode %q", s)
	}
}
