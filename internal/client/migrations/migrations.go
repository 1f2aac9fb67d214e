// Package migrations embeds the goose migrations for the client's local
// SQLite state.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
