// Package migrations embeds the goose migrations for the story API database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
