// Package models contains the data structures shared by the registry,
// pipeline, transfer and web layers.
package models

import "time"

// LinkEntry is the registry's unit of state: one public download link for
// one upstream file reference.
//
// SizeBytes is fixed at creation and authoritative for Content-Length; it is
// never re-derived from a partial download. LocalPath is empty until a local
// copy of exactly SizeBytes exists on disk; attaching the path is a single
// visibility step, so a reader never observes a path to a half-written file.
type LinkEntry struct {
	ID          string
	FileName    string
	SizeBytes   int64
	MimeType    string
	UpstreamRef string
	LocalPath   string
	CreatedAt   time.Time
}

// Cached reports whether a complete local copy is available.
func (e *LinkEntry) Cached() bool {
	return e.LocalPath != ""
}
