// Package migrations embeds the goose SQL migrations for the optional
// Postgres-backed link registry.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
