// Package migrations embeds goose SQL migrations of the aura database.
package migrations

import "embed"

// FS holds every *.sql migration.
//
//go:embed *.sql
var FS embed.FS
